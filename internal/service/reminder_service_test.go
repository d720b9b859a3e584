package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/logging"
)

type chanSender struct {
	mu   sync.Mutex
	sent chan string
	err  error
}

func newChanSender() *chanSender {
	return &chanSender{sent: make(chan string, 4)}
}

func (c *chanSender) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent <- text
	return c.err
}

func newRunningReminders(t *testing.T) (*ReminderService, *chanSender) {
	t.Helper()
	scheduler := NewSchedulerService(time.UTC, logging.Discard())
	scheduler.Start()
	t.Cleanup(scheduler.Stop)

	r := NewReminderService(scheduler, logging.Discard())
	sender := newChanSender()
	r.SetSender(sender)
	return r, sender
}

func TestReminderFires(t *testing.T) {
	r, sender := newRunningReminders(t)

	require.NoError(t, r.Schedule(context.Background(), "t1", time.Now().Add(100*time.Millisecond), "Pay rent", "before noon"))
	assert.Equal(t, 1, r.Pending())

	select {
	case text := <-sender.sent:
		assert.Equal(t, "⏰ <b>Pay rent</b>\nbefore noon", text)
	case <-time.After(3 * time.Second):
		t.Fatal("reminder did not fire")
	}
	assert.Eventually(t, func() bool { return r.Pending() == 0 }, time.Second, 10*time.Millisecond)
}

func TestReminderCancel(t *testing.T) {
	r, sender := newRunningReminders(t)
	ctx := context.Background()

	require.NoError(t, r.Schedule(ctx, "t1", time.Now().Add(200*time.Millisecond), "a", ""))
	require.NoError(t, r.Cancel(ctx, "t1"))
	require.NoError(t, r.Cancel(ctx, "unknown"))
	assert.Zero(t, r.Pending())

	select {
	case text := <-sender.sent:
		t.Fatalf("cancelled reminder fired: %q", text)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestReminderReplace(t *testing.T) {
	r, sender := newRunningReminders(t)
	ctx := context.Background()

	require.NoError(t, r.Schedule(ctx, "t1", time.Now().Add(time.Hour), "old", ""))
	require.NoError(t, r.Schedule(ctx, "t1", time.Now().Add(100*time.Millisecond), "new", ""))
	assert.Equal(t, 1, r.Pending())

	select {
	case text := <-sender.sent:
		assert.Equal(t, "⏰ <b>new</b>", text)
	case <-time.After(3 * time.Second):
		t.Fatal("reminder did not fire")
	}
}

func TestReminderRejectsPast(t *testing.T) {
	r := NewReminderService(NewSchedulerService(time.UTC, logging.Discard()), logging.Discard())

	err := r.Schedule(context.Background(), "t1", time.Now().Add(-time.Minute), "a", "")

	assert.Error(t, err)
	assert.Zero(t, r.Pending())
}

func TestFormatReminderEscapes(t *testing.T) {
	assert.Equal(t, "⏰ <b>a &lt;b&gt;</b>\nx &amp; y", FormatReminder(" a <b> ", "x & y"))
}
