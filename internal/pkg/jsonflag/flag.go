// internal/pkg/jsonflag/flag.go
package jsonflag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Bool decodes true/false, 0/1 and their quoted forms. Form posts from the
// storefront send flags as "0" and "1".
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode flag: %w", err)
		}
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", "0", "false", "no", "off":
		*b = false
		return nil
	case "1", "true", "yes", "on":
		*b = true
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		*b = n != 0
		return nil
	}
	return fmt.Errorf("decode flag: unexpected value %q", raw)
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
