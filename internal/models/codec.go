package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Provenance values for the sync_source column. The tag always names the side
// that performed the most recent write.
const (
	SyncSourceDB     = "db"
	SyncSourceSheets = "sheets"
)

// sheetTimeLayout is the timestamp format used in spreadsheet cells.
const sheetTimeLayout = "2006-01-02 15:04:05"

// The spreadsheet is human-editable, so every cell accessor below is
// permissive: missing cells read as empty, bad numbers default, bad
// timestamps read as zero. Hard validation belongs to the API layer, not to
// the spreadsheet boundary.

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func optCell(row []string, i int) *string {
	if i < len(row) && row[i] != "" {
		s := row[i]
		return &s
	}
	return nil
}

// boolCell treats the literal strings "true" and "1" as true; anything else,
// including an absent cell, yields def.
func boolCell(row []string, i int, def bool) bool {
	if i >= len(row) {
		return def
	}
	switch row[i] {
	case "true", "1":
		return true
	case "":
		return def
	default:
		return false
	}
}

func floatCell(row []string, i int) *float64 {
	if i < len(row) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
			return &v
		}
	}
	return nil
}

func floatCellOr(row []string, i int, def float64) float64 {
	if v := floatCell(row, i); v != nil {
		return *v
	}
	return def
}

func timeCell(row []string, i int) time.Time {
	if i < len(row) {
		if t, err := time.Parse(sheetTimeLayout, row[i]); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func formatSheetTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(sheetTimeLayout)
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrEmpty(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// StringList is a string slice stored as JSONB in PostgreSQL and as a
// comma-joined cell in the spreadsheet.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal StringList value: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// listCell splits a comma-joined cell, trimming whitespace around items.
// An empty cell decodes to an empty list.
func listCell(row []string, i int) StringList {
	raw := cell(row, i)
	if raw == "" {
		return StringList{}
	}
	parts := strings.Split(raw, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func (l StringList) joinCell() string {
	return strings.Join(l, ",")
}
