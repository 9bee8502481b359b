package viewstate

import (
	"mintly/internal/aggregate"
	"mintly/internal/core"
)

// CategorySource tells how the draft's category was chosen.
type CategorySource int

const (
	SourceNone        CategorySource = iota
	SourcePreselected                // carried over from the previous entry
	SourceSuggested                  // applied from a keyword match
	SourceManual                     // picked by the user
)

func (s CategorySource) String() string {
	switch s {
	case SourcePreselected:
		return "preselected"
	case SourceSuggested:
		return "suggested"
	case SourceManual:
		return "manual"
	}
	return "none"
}

// Draft is the expense entry in progress.
type Draft struct {
	Description string
	CategoryID  *string
	Source      CategorySource
}

// Suggestion is the latest debounced keyword match for Description.
type Suggestion struct {
	Description string
	Category    core.Category
	Found       bool
}

// Calendar is the displayed month with its day grouping and the selected day.
type Calendar struct {
	Month    core.Month
	Selected *int
	Grouping aggregate.MonthGrouping
	Detail   aggregate.DayDetail
}

type calendarNav struct {
	month    core.Month
	selected *int
}
