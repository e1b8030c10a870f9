package progress

import (
	"database/sql/driver"
	"fmt"

	json "github.com/bytedance/sonic"
)

// TotalWeeks is fixed by the program definition.
const TotalWeeks = 10

// Material is one fixed-label link slot on a week.
type Material struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Week is one entry of the progress record. IDs run 1..TotalWeeks and never
// change.
type Week struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Notes     string     `json:"notes"`
	Materials []Material `json:"materials"`
}

// Weeks is the full progress record, stored as one JSONB document.
type Weeks []Week

// Scan implements the sql.Scanner interface for database/sql
func (w *Weeks) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Weeks", value)
	}

	return json.Unmarshal(bytes, w)
}

// Value implements the driver.Valuer interface for database/sql
func (w Weeks) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	return json.Marshal(w)
}

// Valid reports whether the record has the shape the program requires. A
// record of any other length is discarded, never partially merged.
func (w Weeks) Valid() bool {
	return len(w) == TotalWeeks
}

func (w Weeks) clone() Weeks {
	if w == nil {
		return nil
	}
	out := make(Weeks, len(w))
	for i, wk := range w {
		out[i] = wk
		out[i].Materials = append([]Material(nil), wk.Materials...)
	}
	return out
}

// DefaultWeeks builds a fresh all-default record.
func DefaultWeeks() Weeks {
	weeks := make(Weeks, TotalWeeks)
	for i := range weeks {
		weeks[i] = Week{
			ID:    i + 1,
			Title: fmt.Sprintf("Week %d", i+1),
			Notes: "",
			Materials: []Material{
				{Label: "Project link", URL: ""},
				{Label: "Repo or demo", URL: ""},
				{Label: "Notes / resources", URL: ""},
			},
		}
	}
	return weeks
}

// WeekPatch is a partial update to a single week. Nil fields are left
// untouched; a non-nil Materials replaces the whole sequence.
type WeekPatch struct {
	Completed *bool      `json:"completed,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Materials []Material `json:"materials,omitempty"`
}

func (wk Week) applied(patch WeekPatch) Week {
	next := wk
	next.Materials = append([]Material(nil), wk.Materials...)
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	if patch.Notes != nil {
		next.Notes = *patch.Notes
	}
	if patch.Materials != nil {
		next.Materials = append([]Material(nil), patch.Materials...)
	}
	return next
}
