package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap stores free-form measurements and notes as a jsonb/text column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("json map: %w", err)
	}
	return string(raw), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("json map: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("json map: %w", err)
	}
	*m = out
	return nil
}

// Clone returns a shallow copy so cached values are never shared.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
