package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"momentum/internal/logging"
	"momentum/internal/model"
	"momentum/internal/store"
)

type memKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	writeErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data[key] = value
	return nil
}

type scheduled struct {
	fireAt time.Time
	title  string
	body   string
}

type fakeNotifier struct {
	mu        sync.Mutex
	pending   map[string]scheduled
	cancelled []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: map[string]scheduled{}}
}

func (f *fakeNotifier) Schedule(_ context.Context, id string, fireAt time.Time, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[id] = scheduled{fireAt: fireAt, title: title, body: body}
	return nil
}

func (f *fakeNotifier) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[id]; ok {
		delete(f.pending, id)
		f.cancelled = append(f.cancelled, id)
	}
	return nil
}

func (f *fakeNotifier) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[id]
	return ok
}

type fakeProvider struct {
	entitlement model.Entitlement
	err         error
	purchaseErr error
}

func (f *fakeProvider) Entitlement(context.Context, string) (model.Entitlement, error) {
	return f.entitlement, f.err
}

type purchasingProvider struct {
	fakeProvider
	purchased bool
}

func (p *purchasingProvider) Purchase(context.Context, string) error {
	if p.purchaseErr != nil {
		return p.purchaseErr
	}
	p.purchased = true
	p.entitlement = model.EntitlementOwned
	return nil
}

var errBoom = errors.New("boom")

// monday is 2024-01-01, a Monday and the first day of the year.
var monday = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T) (*PlannerService, *memKV, *fakeNotifier) {
	t.Helper()
	kv := newMemKV()
	n := newFakeNotifier()
	p := NewPlannerService(context.Background(), store.New(kv), n, logging.Discard())
	require.Empty(t, p.Notice())
	return p, kv, n
}

func mustCreate(t *testing.T, p *PlannerService, title string, now time.Time) model.Task {
	t.Helper()
	task, err := p.CreateTask(context.Background(), TaskInput{Title: title}, now)
	require.NoError(t, err)
	return task
}

func timePtr(t time.Time) *time.Time { return &t }
