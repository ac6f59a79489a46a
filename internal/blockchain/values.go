// internal/blockchain/values.go
package blockchain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Bool decodes table bool fields rendered as true/false or 0/1, quoted or not.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "true", "1":
		*b = true
	case "false", "0":
		*b = false
	default:
		return fmt.Errorf("invalid bool %s", data)
	}
	return nil
}

// Float decodes table double fields rendered as JSON numbers or strings.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(bytes.Trim(data, `"`)), 64)
	if err != nil {
		return fmt.Errorf("invalid double %s: %w", data, err)
	}
	*f = Float(v)
	return nil
}
