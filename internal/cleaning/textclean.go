package cleaning

import (
	"fmt"
	"slices"
	"strings"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// cleanText trims the configured text columns, checks the gender column
// for unexpected values, and validates every categorical column against
// its expected set. Unexpected values stay in the data; only the action
// log and warnings record them.
func (c *Cleaner) cleanText(tbl *dataset.Table, runCtx *Context) {
	cleaned := 0
	for _, column := range c.config.TextFields {
		if !tbl.HasColumn(column) {
			continue
		}
		trimColumn(tbl, column)
		cleaned++
	}
	runCtx.Log("Text Cleaning", fmt.Sprintf("Cleaned %d text fields", cleaned))

	c.checkGender(tbl, runCtx)
	c.validateCategoricals(tbl, runCtx)
}

// trimColumn strips surrounding whitespace from every present cell. Cells
// that trim down to nothing, or to a missing-value artifact, become absent.
func trimColumn(tbl *dataset.Table, column string) {
	for row := 0; row < tbl.NumRows(); row++ {
		text, ok := tbl.Cell(row, column).Text()
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || missingArtifacts[trimmed] {
			tbl.SetCell(row, column, dataset.Absent())
			continue
		}
		if trimmed != text {
			tbl.SetCell(row, column, dataset.Text(trimmed))
		}
	}
}

// checkGender logs gender values outside the expected set as an anomaly
// and always records the observed distribution. U is a legitimate value,
// not a missing marker, so it never trips the anomaly entry.
func (c *Cleaner) checkGender(tbl *dataset.Table, runCtx *Context) {
	if !tbl.HasColumn(domain.ColGender) {
		return
	}
	expected, ok := c.config.ExpectedValues(domain.ColGender)
	if !ok {
		expected = []string{"M", "F", "U"}
	}
	var unexpected []string
	for _, value := range tbl.DistinctStrings(domain.ColGender) {
		if !slices.Contains(expected, value) {
			unexpected = append(unexpected, value)
		}
	}
	if len(unexpected) > 0 {
		runCtx.Log("Gender Field Anomaly",
			fmt.Sprintf("Found unexpected gender values: [%s]", strings.Join(unexpected, ", ")))
	}
	runCtx.Log("Gender Field Standardization",
		fmt.Sprintf("Gender distribution: %s", formatCounts(tbl.ValueCounts(domain.ColGender))))
}

func (c *Cleaner) validateCategoricals(tbl *dataset.Table, runCtx *Context) {
	var issues []string
	for _, rule := range c.config.CategoricalRules {
		if !tbl.HasColumn(rule.Column) {
			continue
		}
		runCtx.recordCategorical(rule.Column)

		var unexpected []string
		for _, value := range tbl.DistinctStrings(rule.Column) {
			if !slices.Contains(rule.Expected, value) {
				unexpected = append(unexpected, value)
			}
		}
		if len(unexpected) > 0 {
			issue := fmt.Sprintf("%s: Found unexpected values [%s]", rule.Column, strings.Join(unexpected, ", "))
			issues = append(issues, issue)
			runCtx.Warn(issue)
		}
	}
	if len(issues) > 0 {
		runCtx.Log("Categorical Variable Validation", strings.Join(issues, "; "))
		return
	}
	runCtx.Log("Categorical Variable Validation", "All categorical variables meet expectations")
}
