package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes an integer that clients may submit as a JSON number, a
// numeric string, an empty string, or null. Empty and null coerce to zero.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %q as integer: %w", raw, err)
		}
		*f = FlexInt(parsed)
		return nil
	}

	var parsed int64
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	*f = FlexInt(parsed)
	return nil
}

// Int returns the coerced value as a plain int.
func (f FlexInt) Int() int {
	return int(f)
}

// Int64 returns the coerced value.
func (f FlexInt) Int64() int64 {
	return int64(f)
}
