package max

import (
	"reflect"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxclient/pkg/core"
)

func depth(n uint32) *uint32 { return &n }

func TestParseChannelKind(t *testing.T) {
	tests := []struct {
		input string
		want  ChannelKind
	}{
		{"book", ChannelOrderbook},
		{"Orderbook", ChannelOrderbook},
		{"TRADE", ChannelTrade},
		{"ticker", ChannelTicker},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChannelKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseChannelKind("kline")
	require.Error(t, err)
	assert.True(t, core.IsInvalidValueError(err))
}

func TestSubscriptionSet_InsertRemove(t *testing.T) {
	var set SubscriptionSet

	assert.True(t, set.IsEmpty())
	assert.True(t, set.InsertOrderbook("btctwd", depth(1)))
	assert.False(t, set.InsertOrderbook("btctwd", depth(5)))
	assert.True(t, set.InsertTrade("btctwd"))
	assert.True(t, set.InsertTicker("ethtwd"))
	assert.Equal(t, 3, set.Len())

	subs := set.Sorted()
	require.Len(t, subs, 3)
	assert.Equal(t, Subscription{Channel: ChannelOrderbook, Market: "btctwd", Depth: depth(5)}, subs[0])

	assert.True(t, set.RemoveTrade("btctwd"))
	assert.False(t, set.RemoveTrade("btctwd"))
	assert.False(t, set.RemoveOrderbook("ethtwd"))
	assert.True(t, set.RemoveTicker("ethtwd"))
	assert.Equal(t, 1, set.Len())

	set.Clear()
	assert.True(t, set.IsEmpty())
}

func TestSubscriptionSet_MarshalJSON(t *testing.T) {
	set := NewSubscriptionSet()
	set.InsertTicker("ethtwd")
	set.InsertTrade("btctwd")
	set.InsertOrderbook("btctwd", depth(1))
	set.InsertOrderbook("usdttwd", nil)

	data, err := sonic.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `[{"channel":"book","market":"btctwd","depth":1},{"channel":"book","market":"usdttwd"},{"channel":"trade","market":"btctwd"},{"channel":"ticker","market":"ethtwd"}]`, string(data))
}

func TestSubscriptionSet_UnmarshalJSON(t *testing.T) {
	t.Run("later duplicate wins", func(t *testing.T) {
		var set SubscriptionSet
		err := sonic.Unmarshal([]byte(`[{"channel":"book","market":"btctwd","depth":1},{"channel":"orderbook","market":"btctwd","depth":20}]`), &set)
		require.NoError(t, err)

		subs := set.Sorted()
		require.Len(t, subs, 1)
		assert.Equal(t, depth(20), subs[0].Depth)
	})

	t.Run("depth dropped off book", func(t *testing.T) {
		var set SubscriptionSet
		err := sonic.Unmarshal([]byte(`[{"channel":"trade","market":"btctwd","depth":5}]`), &set)
		require.NoError(t, err)
		assert.Nil(t, set.Sorted()[0].Depth)
	})

	t.Run("unknown channel", func(t *testing.T) {
		var set SubscriptionSet
		err := sonic.Unmarshal([]byte(`[{"channel":"kline","market":"btctwd"}]`), &set)
		require.Error(t, err)
	})
}

func TestSubscriptionSet_MergeSubtractClone(t *testing.T) {
	a := NewSubscriptionSet()
	a.InsertTrade("btctwd")
	a.InsertTicker("btctwd")

	b := NewSubscriptionSet()
	b.InsertTicker("btctwd")
	b.InsertOrderbook("ethtwd", nil)

	merged := a.Clone()
	merged.Merge(b)
	assert.Equal(t, 3, merged.Len())
	assert.Equal(t, 2, a.Len())

	merged.Subtract(a)
	assert.Equal(t, []Subscription{{Channel: ChannelOrderbook, Market: "ethtwd"}}, merged.Sorted())

	var empty *SubscriptionSet
	assert.True(t, empty.Clone().IsEmpty())
}

func TestSubscriptionSet_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("decode(encode(set)) equals set", prop.ForAll(
		func(kinds []int, markets []string) bool {
			set := NewSubscriptionSet()
			for i, market := range markets {
				if i >= len(kinds) {
					break
				}
				switch ChannelKind(kinds[i]) {
				case ChannelOrderbook:
					set.InsertOrderbook(market, depth(uint32(len(market))))
				case ChannelTrade:
					set.InsertTrade(market)
				case ChannelTicker:
					set.InsertTicker(market)
				}
			}

			data, err := sonic.Marshal(set)
			if err != nil {
				return false
			}
			var decoded SubscriptionSet
			if err := sonic.Unmarshal(data, &decoded); err != nil {
				return false
			}
			return reflect.DeepEqual(set.Sorted(), decoded.Sorted())
		},
		gen.SliceOf(gen.IntRange(0, 2)),
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
