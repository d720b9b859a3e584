package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sender delivers an HTML-formatted message to the owner.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// ReminderService implements Notifier on top of one-shot cron entries.
type ReminderService struct {
	scheduler *SchedulerService
	log       *slog.Logger

	mu      sync.Mutex
	sender  Sender
	entries map[string]cron.EntryID
}

func NewReminderService(scheduler *SchedulerService, log *slog.Logger) *ReminderService {
	return &ReminderService{
		scheduler: scheduler,
		log:       log,
		entries:   make(map[string]cron.EntryID),
	}
}

// SetSender wires the delivery channel. Reminders firing before a sender is
// set are dropped.
func (r *ReminderService) SetSender(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = s
}

func (r *ReminderService) Schedule(_ context.Context, id string, fireAt time.Time, title, body string) error {
	if !fireAt.After(time.Now()) {
		return fmt.Errorf("schedule reminder %s: fire time %s is in the past", id, fireAt.Format(time.RFC3339))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.entries[id]; ok {
		r.scheduler.Remove(old)
	}
	entryID := new(cron.EntryID)
	*entryID = r.scheduler.ScheduleOnce(fireAt, func() {
		r.fire(id, entryID, title, body)
	})
	r.entries[id] = *entryID

	r.log.Debug("reminder scheduled", "id", id, "at", fireAt)
	return nil
}

func (r *ReminderService) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entryID, ok := r.entries[id]; ok {
		r.scheduler.Remove(entryID)
		delete(r.entries, id)
		r.log.Debug("reminder cancelled", "id", id)
	}
	return nil
}

// Pending returns how many reminders are waiting to fire.
func (r *ReminderService) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *ReminderService) fire(id string, entryPtr *cron.EntryID, title, body string) {
	r.mu.Lock()
	entryID := *entryPtr
	if r.entries[id] == entryID {
		delete(r.entries, id)
	}
	sender := r.sender
	r.mu.Unlock()

	r.scheduler.Remove(entryID)
	if sender == nil {
		r.log.Warn("reminder dropped, no sender", "id", id)
		return
	}
	if err := sender.Send(context.Background(), FormatReminder(title, body)); err != nil {
		r.log.Warn("send reminder", "id", id, "error", err)
	}
}

// FormatReminder renders a reminder notification.
func FormatReminder(title, body string) string {
	var sb strings.Builder
	sb.WriteString("⏰ <b>")
	sb.WriteString(html.EscapeString(strings.TrimSpace(title)))
	sb.WriteString("</b>")
	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(body))
	}
	return sb.String()
}
