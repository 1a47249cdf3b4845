package sqlgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EscapeString escapes single quotes for a SQL string literal.
// The SQL-standard escape ('') is used, which both Postgres and MySQL accept.
// Backslashes are left alone: with standard_conforming_strings they are
// literal characters, and JSON escapes inside jsonb values must reach the
// JSON parser unchanged.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteString wraps a string in single quotes with proper escaping.
func QuoteString(s string) string {
	return "'" + EscapeString(s) + "'"
}

// QuoteNullable quotes s, or returns NULL when s is nil.
func QuoteNullable(s *string) string {
	if s == nil {
		return "NULL"
	}
	return QuoteString(*s)
}

// FormatTimestamp formats t as a TIMESTAMP literal in UTC.
func FormatTimestamp(t time.Time) string {
	return "TIMESTAMP '" + t.UTC().Format("2006-01-02 15:04:05") + "'"
}

// FormatJSONB marshals v and returns it as a quoted jsonb literal.
// Non-ASCII text and HTML characters are kept as-is. A nil v becomes NULL.
func FormatJSONB(v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding jsonb value: %w", err)
	}

	return QuoteString(strings.TrimSuffix(buf.String(), "\n")) + "::jsonb", nil
}
