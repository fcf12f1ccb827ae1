// Package wip compares per-column card counts against WIP limits.
package wip

import (
	"fmt"

	"kzone/internal/service"
)

// Status tags a column's position relative to its limits.
type Status string

const (
	StatusOK    Status = "ok"
	StatusUnder Status = "under"
	StatusOver  Status = "over"
)

// ColumnReport is one line of the WIP report.
type ColumnReport struct {
	ColumnID     string   `json:"columnId"`
	ColumnTitle  string   `json:"columnTitle"`
	ColumnState  string   `json:"columnState"`
	CurrentCards int      `json:"currentCards"`
	MinWIP       *int     `json:"minWIP"`
	MaxWIP       *int     `json:"maxWIP"`
	Status       Status   `json:"status"`
	Violations   []string `json:"violations"`
}

// Report is the output of wip-check.
type Report struct {
	Board   string         `json:"board"`
	Columns []ColumnReport `json:"columns"`
}

// Evaluate returns the status of a column holding count cards.
// A nil or zero limit is unset.
func Evaluate(count int, minWIP, maxWIP *int) Status {
	if limitSet(maxWIP) && count > *maxWIP {
		return StatusOver
	}
	if limitSet(minWIP) && count < *minWIP {
		return StatusUnder
	}
	return StatusOK
}

// Aggregate counts cards per column and reports every card-holding
// column in board order. Parent columns are skipped.
func Aggregate(boardID string, columns []service.Column, cards []service.Card) Report {
	counts := make(map[string]int, len(columns))
	for _, c := range cards {
		if c.ColumnID != "" {
			counts[c.ColumnID]++
		}
	}

	report := Report{Board: boardID, Columns: []ColumnReport{}}
	for _, col := range columns {
		if col.Type != service.ColumnTypeCard {
			continue
		}
		n := counts[col.ColumnID]
		report.Columns = append(report.Columns, ColumnReport{
			ColumnID:     col.ColumnID,
			ColumnTitle:  col.Title,
			ColumnState:  col.State,
			CurrentCards: n,
			MinWIP:       col.MinWIP,
			MaxWIP:       col.MaxWIP,
			Status:       Evaluate(n, col.MinWIP, col.MaxWIP),
			Violations:   violations(n, col.MinWIP, col.MaxWIP),
		})
	}
	return report
}

func violations(n int, minWIP, maxWIP *int) []string {
	v := []string{}
	if limitSet(maxWIP) && n > *maxWIP {
		v = append(v, fmt.Sprintf("over max (%d/%d)", n, *maxWIP))
	}
	if limitSet(minWIP) && n < *minWIP {
		v = append(v, fmt.Sprintf("under min (%d/%d)", n, *minWIP))
	}
	return v
}

func limitSet(limit *int) bool {
	return limit != nil && *limit > 0
}
