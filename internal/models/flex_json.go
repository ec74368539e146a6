package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Percent is nominally a 0-100 value; out-of-range values are kept as sent. Prediction backends are not consistent about
// number encoding, so it accepts native JSON numbers as well as strings
// such as "62.5" or "62.5%".
type Percent float64

// UnmarshalJSON coerces string-encoded numbers to Percent. null is rejected
// rather than read as 0.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return errors.New("flex unmarshal percent: null")
	}

	// Fast path: native number
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Percent(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flex unmarshal percent: %w", err)
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flex unmarshal percent %q: %w", s, err)
	}
	*p = Percent(n)
	return nil
}

// String formats the value the way the service sent it: 62 stays "62", 62.5 stays "62.5".
func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// Clamp bounds the value to [0, 100], suitable for a progress bar width.
func (p Percent) Clamp() float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return float64(p)
}
