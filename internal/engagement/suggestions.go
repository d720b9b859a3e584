package engagement

import (
	"fmt"
	"time"
	"unicode"

	"momentum/internal/model"
)

// MaxSuggestions bounds how many suggestions are offered at once.
const MaxSuggestions = 2

// minTitleRepeats and minCategoryRepeats are the weekday occurrence counts a
// title or category needs before it is suggested.
const (
	minTitleRepeats    = 2
	minCategoryRepeats = 3
)

type SuggestionKind string

const (
	SuggestTitle    SuggestionKind = "title"
	SuggestCategory SuggestionKind = "category"
)

// Suggestion proposes a task based on what usually gets added on this weekday.
type Suggestion struct {
	Kind       SuggestionKind
	Title      string
	CategoryID *string
	Reason     string
}

// RecordTaskCreation feeds a newly created task into the weekday patterns.
func RecordTaskCreation(p *model.TaskPatterns, title string, categoryID *string, now time.Time) {
	norm := NormalizeTitle(title)
	if norm == "" {
		return
	}
	p.Normalize()
	weekday := model.WeekdayNumber(now.Weekday())

	bucket := append(p.WeekdayTitles[weekday], norm)
	if over := len(bucket) - model.MaxTitlesPerWeekday; over > 0 {
		bucket = append([]string(nil), bucket[over:]...)
	}
	p.WeekdayTitles[weekday] = bucket
	p.TitleCounts[norm]++

	if categoryID != nil {
		counts := p.WeekdayCategories[weekday]
		if counts == nil {
			counts = make(map[string]int)
			p.WeekdayCategories[weekday] = counts
		}
		counts[*categoryID]++
	}
}

// Suggestions proposes up to MaxSuggestions tasks for now's weekday. Titles
// already planned for today are never suggested.
func Suggestions(p model.TaskPatterns, tasks []model.Task, categories []model.Category, now time.Time) []Suggestion {
	weekday := model.WeekdayNumber(now.Weekday())
	dayName := now.Weekday().String()
	today := TodayTasks(tasks, now)

	planned := make(map[string]bool, len(today))
	for _, t := range today {
		planned[NormalizeTitle(t.Title)] = true
	}

	counts := make(map[string]int)
	var order []string
	for _, title := range p.WeekdayTitles[weekday] {
		if counts[title] == 0 {
			order = append(order, title)
		}
		counts[title]++
	}

	var out []Suggestion
	for _, title := range order {
		if counts[title] < minTitleRepeats || planned[title] {
			continue
		}
		out = append(out, Suggestion{
			Kind:   SuggestTitle,
			Title:  capitalize(title),
			Reason: fmt.Sprintf("You often add this on %ss", dayName),
		})
	}

	if s, ok := categorySuggestion(p.WeekdayCategories[weekday], today, categories, dayName); ok {
		out = append(out, s)
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func categorySuggestion(counts map[string]int, today []model.Task, categories []model.Category, dayName string) (Suggestion, bool) {
	topID, topCount := "", 0
	for id, n := range counts {
		if n > topCount || (n == topCount && id < topID) {
			topID, topCount = id, n
		}
	}
	if topCount < minCategoryRepeats {
		return Suggestion{}, false
	}
	for _, t := range today {
		if t.InCategory(topID) {
			return Suggestion{}, false
		}
	}

	for _, c := range categories {
		if c.ID != topID {
			continue
		}
		id := c.ID
		return Suggestion{
			Kind:       SuggestCategory,
			Title:      fmt.Sprintf("Add a %s task", c.Name),
			CategoryID: &id,
			Reason:     fmt.Sprintf("You usually plan %s on %ss", c.Name, dayName),
		}, true
	}
	// the category was deleted since it was recorded
	return Suggestion{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
