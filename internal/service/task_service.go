package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"momentum/internal/engagement"
	"momentum/internal/model"
)

// TaskInput represents the editable fields of a task.
// A zero Priority means medium.
type TaskInput struct {
	Title      string
	Notes      string
	DueDate    *time.Time
	Reminder   *time.Time
	CategoryID *string
	Icon       string
	Priority   model.Priority
}

func (in TaskInput) normalize() (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, ErrInvalidTitle
	}
	in.Notes = strings.TrimSpace(in.Notes)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Priority == 0 {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return in, ErrInvalidPriority
	}
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	in.DueDate = copyTime(in.DueDate)
	in.Reminder = copyTime(in.Reminder)
	if in.CategoryID != nil {
		id := *in.CategoryID
		in.CategoryID = &id
	}
	return in, nil
}

// CompletionOutcome reports what a completion changed besides the task.
type CompletionOutcome struct {
	Task               model.Task
	NewAchievements    []model.Achievement
	ChallengeCompleted bool
}

// CreateTask validates input, stores the task and feeds the suggestion
// patterns.
func (p *PlannerService) CreateTask(ctx context.Context, in TaskInput, now time.Time) (model.Task, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if in.CategoryID != nil && p.categoryIndexLocked(*in.CategoryID) < 0 {
		return model.Task{}, fmt.Errorf("create task: %w", ErrCategoryNotFound)
	}
	p.ensureSessionLocked(now)

	task := model.Task{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Notes:      in.Notes,
		CreatedAt:  now,
		DueDate:    in.DueDate,
		Reminder:   in.Reminder,
		CategoryID: in.CategoryID,
		Icon:       in.Icon,
		Priority:   in.Priority,
	}
	p.snap.Tasks = append(p.snap.Tasks, task)
	engagement.RecordTaskCreation(&p.snap.Settings.Patterns, task.Title, task.CategoryID, now)
	p.scheduleReminderLocked(ctx, task, now)
	p.saveLocked(ctx)

	p.log.Info("task created", "id", task.ID, "priority", int(task.Priority))
	return task, nil
}

// UpdateTask replaces the editable fields of a task and reschedules its
// reminder. Completion state is left alone.
func (p *PlannerService) UpdateTask(ctx context.Context, id string, in TaskInput, now time.Time) (model.Task, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.taskIndexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("update task: %w", ErrTaskNotFound)
	}
	if in.CategoryID != nil && p.categoryIndexLocked(*in.CategoryID) < 0 {
		return model.Task{}, fmt.Errorf("update task: %w", ErrCategoryNotFound)
	}
	p.ensureSessionLocked(now)

	task := &p.snap.Tasks[idx]
	task.Title = in.Title
	task.Notes = in.Notes
	task.DueDate = in.DueDate
	task.Reminder = in.Reminder
	task.CategoryID = in.CategoryID
	task.Icon = in.Icon
	task.Priority = in.Priority

	p.cancelReminderLocked(ctx, task.ID)
	p.scheduleReminderLocked(ctx, *task, now)
	p.saveLocked(ctx)
	return *task, nil
}

// SetCompleted marks a task done or open. Completing a task runs the
// engagement flow: streak, achievements, daily challenge, productivity.
// Setting the state the task already has is a no-op.
func (p *PlannerService) SetCompleted(ctx context.Context, id string, done bool, now time.Time) (CompletionOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setCompletedLocked(ctx, id, done, now)
}

// ToggleTask flips the completion state of a task.
func (p *PlannerService) ToggleTask(ctx context.Context, id string, now time.Time) (CompletionOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.taskIndexLocked(id)
	if idx < 0 {
		return CompletionOutcome{}, fmt.Errorf("toggle task: %w", ErrTaskNotFound)
	}
	return p.setCompletedLocked(ctx, id, !p.snap.Tasks[idx].Completed, now)
}

func (p *PlannerService) setCompletedLocked(ctx context.Context, id string, done bool, now time.Time) (CompletionOutcome, error) {
	idx := p.taskIndexLocked(id)
	if idx < 0 {
		return CompletionOutcome{}, fmt.Errorf("complete task: %w", ErrTaskNotFound)
	}

	task := &p.snap.Tasks[idx]
	if task.Completed == done {
		return CompletionOutcome{Task: *task}, nil
	}

	if !task.SetCompleted(done, now) {
		p.scheduleReminderLocked(ctx, *task, now)
		p.saveLocked(ctx)
		p.log.Info("task reopened", "id", task.ID)
		return CompletionOutcome{Task: *task}, nil
	}

	p.ensureSessionLocked(now)
	s := &p.snap.Settings
	engagement.RecordCompletion(s, now)

	hour := now.Hour()
	out := CompletionOutcome{Task: *task}
	out.NewAchievements = p.checkUnlocksLocked(&hour)

	engagement.RefreshDailyChallenge(s, now)
	if engagement.CheckCompletion(s.CurrentChallenge, p.snap.Tasks, s.CurrentStreak, now) {
		s.TotalChallengesCompleted++
		out.ChallengeCompleted = true
		p.log.Info("daily challenge completed", "type", s.CurrentChallenge.Type)
	}

	engagement.RecordProductivity(&s.Productivity, now)
	p.cancelReminderLocked(ctx, task.ID)
	p.saveLocked(ctx)

	p.log.Info("task completed", "id", task.ID, "streak", s.CurrentStreak, "total", s.TotalTasksCompleted)
	return out, nil
}

// DeleteTask removes a task and its pending reminder.
func (p *PlannerService) DeleteTask(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.taskIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("delete task: %w", ErrTaskNotFound)
	}
	p.snap.Tasks = slices.Delete(p.snap.Tasks, idx, idx+1)
	p.cancelReminderLocked(ctx, id)
	p.saveLocked(ctx)

	p.log.Info("task deleted", "id", id)
	return nil
}

// Task returns a single task by id.
func (p *PlannerService) Task(id string) (model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.taskIndexLocked(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	return p.snap.Tasks[idx], nil
}

// Tasks returns all tasks in display order: open before done, open tasks by
// due date (undated last) then priority, done tasks most recent first.
func (p *PlannerService) Tasks() []model.Task {
	p.mu.Lock()
	tasks := slices.Clone(p.snap.Tasks)
	p.mu.Unlock()

	sortTasks(tasks)
	return tasks
}

func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Completed {
			switch {
			case a.CompletedAt == nil:
				return false
			case b.CompletedAt == nil:
				return true
			}
			return a.CompletedAt.After(*b.CompletedAt)
		}
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func (p *PlannerService) taskIndexLocked(id string) int {
	return slices.IndexFunc(p.snap.Tasks, func(t model.Task) bool { return t.ID == id })
}

// scheduleReminderLocked reports whether a reminder was handed to the
// notifier. Past reminders and completed tasks are skipped.
func (p *PlannerService) scheduleReminderLocked(ctx context.Context, t model.Task, now time.Time) bool {
	if t.Completed || t.Reminder == nil || !t.Reminder.After(now) || !p.snap.Settings.NotificationsEnabled {
		return false
	}
	body := t.Notes
	if body == "" {
		body = "Don't forget about this task."
	}
	if err := p.notifier.Schedule(ctx, t.ID, *t.Reminder, t.Title, body); err != nil {
		p.log.Warn("schedule reminder", "id", t.ID, "error", err)
		return false
	}
	return true
}

func (p *PlannerService) cancelReminderLocked(ctx context.Context, id string) {
	if err := p.notifier.Cancel(ctx, id); err != nil {
		p.log.Warn("cancel reminder", "id", id, "error", err)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
