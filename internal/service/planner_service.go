package service

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"momentum/internal/engagement"
	"momentum/internal/model"
	"momentum/internal/store"
)

const (
	noticeLoadFailed = "Some saved data could not be read and was reset to defaults."
	noticeSaveFailed = "Your latest changes could not be saved. They will be saved again with your next change."
)

// Notifier delivers a local notification at fireAt. Scheduling an id that is
// already pending replaces it.
type Notifier interface {
	Schedule(ctx context.Context, id string, fireAt time.Time, title, body string) error
	Cancel(ctx context.Context, id string) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) Schedule(context.Context, string, time.Time, string, string) error { return nil }
func (NopNotifier) Cancel(context.Context, string) error                               { return nil }

// PlannerService owns the in-memory planner state and runs every flow that
// changes it. All methods are safe for concurrent use.
type PlannerService struct {
	mu       sync.Mutex
	store    *store.Store
	notifier Notifier
	log      *slog.Logger

	snap   store.Snapshot
	notice string

	// sessionDay is the day the last session check ran for.
	sessionDay *time.Time
}

// NewPlannerService loads the persisted snapshot. Unreadable records are
// replaced by defaults and reported through Notice.
func NewPlannerService(ctx context.Context, st *store.Store, notifier Notifier, log *slog.Logger) *PlannerService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	p := &PlannerService{store: st, notifier: notifier, log: log}

	snap, err := st.Load(ctx)
	if err != nil {
		log.Warn("load snapshot", "error", err)
		p.notice = noticeLoadFailed
	}
	p.snap = snap
	return p
}

// SessionReport describes what StartSession changed.
type SessionReport struct {
	Streak           engagement.StreakCheck
	NewChallenge     bool
	Challenge        model.DailyChallenge
	CurrentStreak    int
	FreezesRemaining int
}

// StartSession validates the streak and rolls the daily challenge. It runs on
// startup and at every day rollover; flows that change state run it first
// when the day changed since the last check.
func (p *PlannerService) StartSession(ctx context.Context, now time.Time) SessionReport {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := p.startSessionLocked(now)
	p.saveLocked(ctx)
	return report
}

func (p *PlannerService) startSessionLocked(now time.Time) SessionReport {
	s := &p.snap.Settings
	check := engagement.ValidateStreak(s, now)
	fresh := engagement.RefreshDailyChallenge(s, now)
	day := engagement.StartOfDay(now)
	p.sessionDay = &day

	p.log.Info("session started",
		"streak_check", check.String(),
		"streak", s.CurrentStreak,
		"freezes", s.FreezeCount,
		"challenge", s.CurrentChallenge.Type,
	)
	return SessionReport{
		Streak:           check,
		NewChallenge:     fresh,
		Challenge:        *s.CurrentChallenge,
		CurrentStreak:    s.CurrentStreak,
		FreezesRemaining: s.FreezeCount,
	}
}

// ensureSessionLocked runs the session check when none ran yet for the day
// of now. Callers save afterwards.
func (p *PlannerService) ensureSessionLocked(now time.Time) {
	if p.sessionDay != nil && engagement.SameDay(*p.sessionDay, now) {
		return
	}
	p.startSessionLocked(now)
}

// Settings returns a copy of the settings record.
func (p *PlannerService) Settings() model.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Settings.Clone()
}

// Notice returns the pending soft error message, if any.
func (p *PlannerService) Notice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

func (p *PlannerService) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = ""
}

// SetPremium applies a new entitlement: freezes are granted or revoked and
// the premium achievement is checked. It returns newly unlocked achievements.
func (p *PlannerService) SetPremium(ctx context.Context, premium bool, now time.Time) []model.Achievement {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ensureSessionLocked(now)
	s := &p.snap.Settings
	changed := s.IsPremium != premium
	s.IsPremium = premium
	engagement.RefreshFreezes(s, now)
	unlocked := p.checkUnlocksLocked(nil)
	p.saveLocked(ctx)
	if changed {
		p.log.Info("premium changed", "premium", premium, "freezes", s.FreezeCount)
	}
	return unlocked
}

// SetNotificationsEnabled toggles reminders. Disabling cancels every pending
// reminder; enabling schedules the future ones again.
func (p *PlannerService) SetNotificationsEnabled(ctx context.Context, enabled bool, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap.Settings.NotificationsEnabled == enabled {
		return
	}
	p.ensureSessionLocked(now)
	p.snap.Settings.NotificationsEnabled = enabled
	for _, t := range p.snap.Tasks {
		if enabled {
			p.scheduleReminderLocked(ctx, t, now)
		} else {
			p.cancelReminderLocked(ctx, t.ID)
		}
	}
	p.saveLocked(ctx)
}

// RescheduleReminders hands every future reminder of an open task to the
// notifier. It returns how many were scheduled.
func (p *PlannerService) RescheduleReminders(ctx context.Context, now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, t := range p.snap.Tasks {
		if p.scheduleReminderLocked(ctx, t, now) {
			n++
		}
	}
	return n
}

// Suggestions returns today's task suggestions.
func (p *PlannerService) Suggestions(now time.Time) []engagement.Suggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return engagement.Suggestions(p.snap.Settings.Patterns, p.snap.Tasks, p.snap.Categories, now)
}

// Insights summarizes the productivity history.
func (p *PlannerService) Insights(now time.Time) engagement.Insights {
	p.mu.Lock()
	defer p.mu.Unlock()
	return engagement.Summarize(p.snap.Settings.Productivity, now)
}

// Dashboard is a read-only view of everything the daily report shows.
type Dashboard struct {
	Settings    model.Settings
	Streak      engagement.StreakStatus
	Challenge   model.DailyChallenge
	Due         []model.Task
	OpenCount   int
	DoneToday   int
	Suggestions []engagement.Suggestion
	Insights    engagement.Insights
	Categories  []model.Category
}

// Dashboard builds the view for now without changing any state. Due lists
// open tasks due today or earlier, oldest due date first.
func (p *PlannerService) Dashboard(now time.Time) Dashboard {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.snap.Settings
	d := Dashboard{
		Settings:    s.Clone(),
		Streak:      engagement.Status(s, now),
		Suggestions: engagement.Suggestions(s.Patterns, p.snap.Tasks, p.snap.Categories, now),
		Insights:    engagement.Summarize(s.Productivity, now),
		Categories:  slices.Clone(p.snap.Categories),
	}

	if s.CurrentChallenge != nil && engagement.SameDay(s.CurrentChallenge.Date, now) {
		d.Challenge = *s.CurrentChallenge
	} else {
		d.Challenge = engagement.ForToday(now)
	}

	for _, t := range p.snap.Tasks {
		switch {
		case t.Completed:
			if engagement.CompletedToday(t, now) {
				d.DoneToday++
			}
		default:
			d.OpenCount++
			if t.DueDate != nil && engagement.DaysBetween(*t.DueDate, now) >= 0 {
				d.Due = append(d.Due, t)
			}
		}
	}
	sort.SliceStable(d.Due, func(i, j int) bool {
		return d.Due[i].DueDate.Before(*d.Due[j].DueDate)
	})
	return d
}

func (p *PlannerService) checkUnlocksLocked(completionHour *int) []model.Achievement {
	s := &p.snap.Settings
	unlocked := engagement.CheckUnlocks(engagement.UnlockInput{
		TotalCompleted: s.TotalTasksCompleted,
		CurrentStreak:  s.CurrentStreak,
		LongestStreak:  s.LongestStreak,
		CategoryCount:  len(p.snap.Categories),
		IsPremium:      s.IsPremium,
		CompletionHour: completionHour,
	}, s.UnlockedAchievements)
	engagement.MergeUnlocked(s, unlocked)
	for _, a := range unlocked {
		p.log.Info("achievement unlocked", "id", a.ID)
	}
	return unlocked
}

func (p *PlannerService) saveLocked(ctx context.Context) {
	if err := p.store.Save(ctx, p.snap); err != nil {
		p.log.Warn("save snapshot", "error", err)
		p.notice = noticeSaveFailed
	}
}
