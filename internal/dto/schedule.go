package dto

import "strings"

// ScheduleTextRequest carries pasted multi-line schedule text
type ScheduleTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate validates the ScheduleTextRequest
func (r *ScheduleTextRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Text) == "" {
		return false, "Schedule text is required"
	}
	return true, ""
}

// ParsedItemResponse is one accepted schedule line
type ParsedItemResponse struct {
	Time         string `json:"time"`
	EndTime      string `json:"end_time,omitempty"`
	Label        string `json:"label"`
	OriginalText string `json:"original_text"`
}

// ParsingErrorResponse is one rejected schedule line
type ParsingErrorResponse struct {
	OriginalText string `json:"original_text"`
	Hint         string `json:"hint"`
}

// SchedulePreviewResponse shows what an import would do without saving
type SchedulePreviewResponse struct {
	Items      []ParsedItemResponse   `json:"items"`
	Errors     []ParsingErrorResponse `json:"errors"`
	NewItems   []ParsedItemResponse   `json:"new_items"`
	Duplicates []ParsedItemResponse   `json:"duplicates"`
	TotalLines int                    `json:"total_lines"`
}

// ScheduleImportResponse reports the outcome of an import
type ScheduleImportResponse struct {
	Imported      []ScheduleItemResponse `json:"imported"`
	Duplicates    []ParsedItemResponse   `json:"duplicates"`
	Errors        []ParsingErrorResponse `json:"errors"`
	Schedule      []ScheduleItemResponse `json:"schedule"`
	ImportedCount int                    `json:"imported_count"`
}

// ScheduleItemResponse is a persisted schedule entry
type ScheduleItemResponse struct {
	ID    string `json:"id"`
	Time  string `json:"time"`
	Label string `json:"label"`
}
