package core

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is an arbitrary precision number carried as a JSON string on the
// MAX wire. Bare JSON numbers and null are accepted on decode.
type Decimal struct {
	apd.Decimal
}

// NewDecimal parses s into a Decimal.
func NewDecimal(s string) (Decimal, error) {
	var d Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// MustDecimal is NewDecimal for literals; it panics on bad input.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Equal reports numeric equality, so "1.0" equals "1".
func (d Decimal) Equal(other Decimal) bool {
	return d.Cmp(&other.Decimal) == 0
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Text('f') + `"`), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if _, _, err := d.SetString(string(data)); err != nil {
		return fmt.Errorf("parse decimal %q: %w", data, err)
	}
	return nil
}

// EncodeValues renders the decimal in URL query strings.
func (d Decimal) EncodeValues(key string, v *url.Values) error {
	v.Set(key, d.Text('f'))
	return nil
}
