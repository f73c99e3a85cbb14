package models

import (
	"strconv"
	"strings"
)

// FieldChange is one entry of a ChangeSet: a field whose value differs
// between an original record and its edited draft.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// diffOrder fixes the field order of generated changesets so issue bodies
// are stable across submissions.
var diffOrder = []string{
	"name",
	"latitude",
	"longitude",
	"bortle",
	"standardLight",
	"sqm",
	"climate",
	"accommodation",
	"notes",
	"images",
}

// DiffRecords computes the minimal field-level changeset between an
// original snapshot and an edited draft. Values that parse as numbers on
// both sides are compared numerically, so "5" and "5.0" are equal;
// everything else compares as text. Image fields are compared after
// normalization, joined one URL per line.
func DiffRecords(original, draft SiteRecord) []FieldChange {
	before := fieldValues(original)
	after := fieldValues(draft)

	var changes []FieldChange
	for _, field := range diffOrder {
		b, a := before[field], after[field]
		if valuesEqual(b, a) {
			continue
		}
		changes = append(changes, FieldChange{Field: field, Before: b, After: a})
	}
	return changes
}

func fieldValues(r SiteRecord) map[string]string {
	return map[string]string{
		"name":          r.Name,
		"latitude":      strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		"longitude":     strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		"bortle":        r.Bortle,
		"standardLight": r.StandardLight,
		"sqm":           r.Sqm,
		"climate":       r.Climate,
		"accommodation": r.Accommodation,
		"notes":         r.Notes,
		"images":        strings.Join(r.ImageList(), "\n"),
	}
}

func valuesEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return false
}
