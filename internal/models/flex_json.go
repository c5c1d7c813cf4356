package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts both native numbers and string-encoded numbers.
// Spreadsheet exports and some form encoders quote every value. Fields that
// are absent, null or blank keep whatever the receiver already holds, which
// lets callers start from NewPredictRequest defaults. Unknown keys are ignored.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	for name, dst := range r.fieldRefs() {
		val, ok := raw[name]
		if !ok {
			continue
		}
		n, set, err := parseFlexFloat(val)
		if err != nil {
			return fmt.Errorf("flex unmarshal %s: %w", name, err)
		}
		if set {
			*dst = n
		}
	}
	return nil
}

// parseFlexFloat decodes a JSON number or a string holding one. set is false
// for null and blank strings.
func parseFlexFloat(val json.RawMessage) (n float64, set bool, err error) {
	val = bytes.TrimSpace(val)
	if len(val) == 0 || string(val) == "null" {
		return 0, false, nil
	}

	if val[0] != '"' {
		if err := json.Unmarshal(val, &n); err != nil {
			return 0, false, fmt.Errorf("unsupported value %s", val)
		}
		return n, true, nil
	}

	var s string
	if err := json.Unmarshal(val, &s); err != nil {
		return 0, false, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, fmt.Errorf("non-finite value %q", s)
	}
	return n, true, nil
}
