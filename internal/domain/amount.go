package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Amount is a price, cost or budget in the trip's currency unit (KRW by default).
// It is always an integer; there are no fractional units.
type Amount int64

// UnmarshalJSON accepts an integer, an integral float such as 350000.0, or null.
// null decodes to zero so that an absent amount never reaches arithmetic as
// anything but 0. Non-integral numbers are rejected.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*a = Amount(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return fmt.Errorf("amount: %s is not a whole number", n)
	}
	*a = Amount(f)
	return nil
}
