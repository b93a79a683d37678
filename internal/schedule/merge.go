package schedule

import (
	"sort"
	"strings"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/google/uuid"
)

// Merge is the outcome of materializing parsed items against a schedule
type Merge struct {
	Items      []domain.GigScheduleItem `json:"items"`
	Duplicates []ParsedItem             `json:"duplicates"`
}

// IsDuplicate reports whether existing already holds an entry with the same
// time and the same label, ignoring case and surrounding whitespace.
// EndTime is not part of the key.
func IsDuplicate(candidate ParsedItem, existing []domain.GigScheduleItem) bool {
	label := strings.TrimSpace(candidate.Label)
	for _, e := range existing {
		if e.Time == candidate.Time && strings.EqualFold(strings.TrimSpace(e.Label), label) {
			return true
		}
	}
	return false
}

// Materialize converts parsed items into schedule entries with fresh ids,
// diverting duplicates of existing entries. Input order is kept.
// EndTime is not carried into the persisted shape.
func Materialize(parsed []ParsedItem, existing []domain.GigScheduleItem) *Merge {
	m := &Merge{
		Items:      []domain.GigScheduleItem{},
		Duplicates: []ParsedItem{},
	}

	for _, p := range parsed {
		if IsDuplicate(p, existing) {
			m.Duplicates = append(m.Duplicates, p)
			continue
		}
		m.Items = append(m.Items, domain.GigScheduleItem{
			ID:    uuid.New().String(),
			Time:  p.Time,
			Label: p.Label,
		})
	}

	return m
}

// SortItems returns a copy of items ordered by time. Entries sharing a
// time keep their relative order.
func SortItems(items []domain.GigScheduleItem) []domain.GigScheduleItem {
	sorted := make([]domain.GigScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// FormatItems renders a schedule back into the paste format, one
// "HH:MM - label" line per entry.
func FormatItems(items []domain.GigScheduleItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.Time)
		b.WriteString(" - ")
		b.WriteString(item.Label)
	}
	return b.String()
}
