package store

import (
	"encoding/json"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(...any) error }

// marshalList converts []string to JSON text for storage. A nil list is
// stored as "null" so it reads back as nil and an empty one as "[]".
func marshalList(items []string) string {
	b, _ := json.Marshal(items)
	return string(b)
}

// unmarshalList converts JSON text back to []string.
func unmarshalList(s string) []string {
	if s == "" || s == "null" {
		return nil
	}
	var items []string
	_ = json.Unmarshal([]byte(s), &items)
	return items
}

// marshalJSON stores an arbitrary value as JSON text.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decode column: %w", err)
	}
	return nil
}
