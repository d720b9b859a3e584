package model

import "time"

// ProductivityRetentionDays bounds how long daily logs are kept.
const ProductivityRetentionDays = 90

// DailyLog aggregates completions for one calendar day.
type DailyLog struct {
	Date           time.Time `json:"date"`
	CompletedCount int       `json:"completedCount"`
	Hours          []int     `json:"completionHours"`
}

// ProductivityData holds rolling completion histograms.
// HourCounts is keyed 0-23, WeekdayCounts 1-7 with 1 = Sunday.
type ProductivityData struct {
	DailyLogs     []DailyLog  `json:"dailyLogs"`
	HourCounts    map[int]int `json:"hourlyDistribution"`
	WeekdayCounts map[int]int `json:"weekdayDistribution"`
}

func NewProductivityData() ProductivityData {
	return ProductivityData{
		DailyLogs:     []DailyLog{},
		HourCounts:    map[int]int{},
		WeekdayCounts: map[int]int{},
	}
}

// Normalize replaces nil collections with empty ones.
func (p *ProductivityData) Normalize() {
	if p.DailyLogs == nil {
		p.DailyLogs = []DailyLog{}
	}
	if p.HourCounts == nil {
		p.HourCounts = map[int]int{}
	}
	if p.WeekdayCounts == nil {
		p.WeekdayCounts = map[int]int{}
	}
}

// WeekdayNumber maps time.Weekday onto the 1-7 (Sunday first) scale.
func WeekdayNumber(d time.Weekday) int {
	return int(d) + 1
}
