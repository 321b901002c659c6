package domain

import "time"

// LogEntry is one chronological cleaning action.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

// MissingStat describes the absent cells of one column.
type MissingStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QualityReport is the structured product of one cleaning run. It is built
// once, immutable afterward, and attached to the cleaned dataset's
// provenance alongside its text rendering.
type QualityReport struct {
	OriginalRows int `json:"original_rows"`
	CleanedRows  int `json:"cleaned_rows"`
	RemovedRows  int `json:"removed_rows"`
	ColumnCount  int `json:"column_count"`

	// Columns preserves the cleaned table's column order.
	Columns []string `json:"columns"`

	// MissingValues is keyed by column; only columns with at least one
	// absent cell appear.
	MissingValues map[string]MissingStat `json:"missing_values"`
	// Distributions holds per-categorical-column value counts.
	Distributions map[string]map[string]int `json:"categorical_distributions"`

	ExactDuplicatesRemoved int `json:"exact_duplicates_removed"`
	KeyDuplicatesRemoved   int `json:"business_key_duplicates_removed"`

	Warnings []string   `json:"warnings"`
	Actions  []LogEntry `json:"cleaning_log"`
}
