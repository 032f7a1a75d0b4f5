package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value as typed by the operator. It accepts a JSON number
// or string so that blank or malformed input reaches validation instead of
// failing the body decode.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if bytes.Equal(trimmed, []byte("null")) {
		*a = ""

		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err //nolint:wrapcheck
		}

		*a = Amount(text)

		return nil
	}

	*a = Amount(trimmed)

	return nil
}

// Positive parses the amount and reports whether it is a number greater than zero.
func (a Amount) Positive() (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}

	return value, true
}
