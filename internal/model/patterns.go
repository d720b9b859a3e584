package model

// MaxTitlesPerWeekday caps each weekday bucket of recorded titles.
const MaxTitlesPerWeekday = 20

// TaskPatterns remembers what gets created on which weekday.
// Weekday keys use the 1-7 (Sunday first) scale.
type TaskPatterns struct {
	WeekdayTitles     map[int][]string       `json:"weekdayTitles"`
	TitleCounts       map[string]int         `json:"titleCounts"`
	WeekdayCategories map[int]map[string]int `json:"weekdayCategories"`
}

func NewTaskPatterns() TaskPatterns {
	return TaskPatterns{
		WeekdayTitles:     map[int][]string{},
		TitleCounts:       map[string]int{},
		WeekdayCategories: map[int]map[string]int{},
	}
}

// Normalize replaces nil maps with empty ones.
func (p *TaskPatterns) Normalize() {
	if p.WeekdayTitles == nil {
		p.WeekdayTitles = map[int][]string{}
	}
	if p.TitleCounts == nil {
		p.TitleCounts = map[string]int{}
	}
	if p.WeekdayCategories == nil {
		p.WeekdayCategories = map[int]map[string]int{}
	}
}
