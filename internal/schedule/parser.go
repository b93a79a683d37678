// Package schedule turns pasted run-of-show text into schedule entries.
//
// Each input line maps to exactly one outcome: a ParsedItem or a
// *ParsingError. Rejected lines are data for the caller to display; the
// parser never guesses at a line it cannot read.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rejection hints shown next to the offending line
const (
	HintEmptyLine    = "Empty line"
	HintMissingTime  = "Line must start with time in HH:MM format"
	HintInvalidTime  = "Invalid time format"
	HintMissingLabel = "Missing description after time"
)

var (
	// leading H:MM or HH:MM
	startTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
	// "-18:30", " – 18:30", "—18:30" right after the start time. \s is
	// ASCII only, so \p{Zs} covers pasted non-breaking spaces.
	endTimePattern = regexp.MustCompile(`^[\s\p{Zs}]*[-–—][\s\p{Zs}]*(\d{1,2}):(\d{2})`)
	// one separator between the time and the label
	separatorPattern = regexp.MustCompile(`^[-–—:][\s\p{Zs}]*`)
)

// ParsedItem is a successfully parsed schedule line
type ParsedItem struct {
	Time         string `json:"time"`
	EndTime      string `json:"end_time,omitempty"`
	Label        string `json:"label"`
	OriginalText string `json:"original_text"`
}

// HasEndTime reports whether the line encoded a time range
func (p ParsedItem) HasEndTime() bool {
	return p.EndTime != ""
}

// ParsingError describes a line that could not be parsed
type ParsingError struct {
	OriginalText string `json:"original_text"`
	Hint         string `json:"hint"`
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("schedule line %q: %s", e.OriginalText, e.Hint)
}

func reject(line, hint string) error {
	return &ParsingError{OriginalText: line, Hint: hint}
}

// ParseLine parses one line of schedule text. A non-nil error is always a
// *ParsingError.
func ParseLine(line string) (ParsedItem, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedItem{}, reject(line, HintEmptyLine)
	}

	m := startTimePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return ParsedItem{}, reject(line, HintMissingTime)
	}

	start, ok := formatClock(m[1], m[2])
	if !ok {
		return ParsedItem{}, reject(line, HintInvalidTime)
	}

	rest := trimmed[len(m[0]):]

	var end string
	if em := endTimePattern.FindStringSubmatch(rest); em != nil {
		if t, ok := formatClock(em[1], em[2]); ok {
			end = t
			rest = rest[len(em[0]):]
		}
	}

	rest = strings.TrimSpace(rest)
	if loc := separatorPattern.FindStringIndex(rest); loc != nil {
		rest = rest[loc[1]:]
	}

	label := strings.TrimSpace(rest)
	if label == "" {
		return ParsedItem{}, reject(line, HintMissingLabel)
	}

	return ParsedItem{
		Time:         start,
		EndTime:      end,
		Label:        label,
		OriginalText: line,
	}, nil
}

// NormalizeTime validates a bare "H:MM" or "HH:MM" value and returns it
// zero-padded
func NormalizeTime(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	m := startTimePattern.FindStringSubmatch(trimmed)
	if m == nil || len(m[0]) != len(trimmed) {
		return "", false
	}
	return formatClock(m[1], m[2])
}

// formatClock validates hour/minute digits and renders zero-padded HH:MM
func formatClock(hour, minute string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return "", false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

// Result partitions a parsed block into accepted items and rejected lines
type Result struct {
	Items  []ParsedItem    `json:"items"`
	Errors []*ParsingError `json:"errors"`
}

// Total returns the number of input lines the result accounts for
func (r *Result) Total() int {
	return len(r.Items) + len(r.Errors)
}

// ParseBlock parses every newline-separated line of text. Blank lines are
// reported as errors, so len(Items)+len(Errors) equals the line count.
func ParseBlock(text string) *Result {
	res := &Result{
		Items:  []ParsedItem{},
		Errors: []*ParsingError{},
	}

	for _, line := range strings.Split(text, "\n") {
		item, err := ParseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, asParsingError(line, err))
			continue
		}
		res.Items = append(res.Items, item)
	}

	return res
}

func asParsingError(line string, err error) *ParsingError {
	if pe, ok := err.(*ParsingError); ok {
		return pe
	}
	return &ParsingError{OriginalText: line, Hint: err.Error()}
}
