package max

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxclient/pkg/core"
)

func TestPriceVolume_JSON(t *testing.T) {
	var pv PriceVolume
	require.NoError(t, sonic.Unmarshal([]byte(`["1000000.5", 0.25]`), &pv))
	assert.True(t, pv.Price.Equal(core.MustDecimal("1000000.5")))
	assert.True(t, pv.Volume.Equal(core.MustDecimal("0.25")))

	data, err := sonic.Marshal(pv)
	require.NoError(t, err)
	assert.Equal(t, `["1000000.5","0.25"]`, string(data))

	assert.Error(t, sonic.Unmarshal([]byte(`["1"]`), &pv))
}

func TestOHLC_WrongLength(t *testing.T) {
	var candle OHLC
	assert.Error(t, sonic.Unmarshal([]byte(`[1700000000, 1, 2]`), &candle))
}

func TestTimestamps(t *testing.T) {
	assert.Equal(t, time.Unix(1_700_000_000, 0), Seconds(1_700_000_000).Time())
	assert.Equal(t, time.UnixMilli(1_700_000_000_123), Millis(1_700_000_000_123).Time())
}

func TestPageParams_Query(t *testing.T) {
	qs, err := encodeQuery(GetOrders{Market: "btctwd", PageParams: DefaultPage()})
	require.NoError(t, err)
	assert.Equal(t, "limit=50&market=btctwd&page=1", qs)
}
