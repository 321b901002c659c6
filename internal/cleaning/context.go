package cleaning

import (
	"slices"
	"time"

	"wilcli/pkg/contracts/domain"
)

// Context accumulates everything one cleaning run learns about its file:
// the chronological action log, the categorical columns it validated,
// duplicate counts, and warnings. Every run gets a fresh Context threaded
// through the stages and folded into the report, so a Cleaner carries no
// hidden state between files.
type Context struct {
	runID        string
	originalRows int

	categoricalColumns []string

	exactDupsRemoved int
	keyDupsRemoved   int

	warnings []string
	actions  []domain.LogEntry
}

func newContext(runID string) *Context {
	return &Context{runID: runID}
}

// RunID returns the identifier used for this run's output naming.
func (c *Context) RunID() string {
	return c.runID
}

// Log appends one timestamped action to the cleaning log.
func (c *Context) Log(action, detail string) {
	c.actions = append(c.actions, domain.LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		Detail:    detail,
	})
}

// Warn records a data-quality finding. Warnings never stop the run.
func (c *Context) Warn(message string) {
	c.warnings = append(c.warnings, message)
}

func (c *Context) setOriginalRows(n int) {
	c.originalRows = n
}

// recordCategorical remembers a validated categorical column so the report
// can render its final distribution in rule order.
func (c *Context) recordCategorical(column string) {
	if !slices.Contains(c.categoricalColumns, column) {
		c.categoricalColumns = append(c.categoricalColumns, column)
	}
}

func (c *Context) addExactDuplicates(n int) {
	c.exactDupsRemoved += n
}

func (c *Context) addKeyDuplicates(n int) {
	c.keyDupsRemoved += n
}
