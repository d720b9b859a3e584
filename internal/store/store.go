// Package store maps the planner snapshot onto key-value records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"momentum/internal/model"
)

// Record keys.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
	KeySettings   = "settings"
)

// KV is the persistence contract the store needs.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Snapshot is everything the planner keeps between runs.
type Snapshot struct {
	Tasks      []model.Task
	Categories []model.Category
	Settings   model.Settings
}

// NewSnapshot returns the first-launch snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Tasks:      []model.Task{},
		Categories: []model.Category{},
		Settings:   model.DefaultSettings(),
	}
}

// RecordError reports a record that could not be read or written.
type RecordError struct {
	Key string
	Op  string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Load reads the snapshot. The returned snapshot is always usable: records
// that are missing, unreadable or corrupt are replaced by defaults, and the
// non-nil error lists the ones that failed.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	snap := NewSnapshot()
	var errs []error

	if err := s.load(ctx, KeyTasks, &snap.Tasks); err != nil {
		snap.Tasks = []model.Task{}
		errs = append(errs, err)
	}
	if err := s.load(ctx, KeyCategories, &snap.Categories); err != nil {
		snap.Categories = []model.Category{}
		errs = append(errs, err)
	}
	if err := s.load(ctx, KeySettings, &snap.Settings); err != nil {
		snap.Settings = model.DefaultSettings()
		errs = append(errs, err)
	}

	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}
	for i := range snap.Tasks {
		snap.Tasks[i].Normalize()
	}
	if snap.Categories == nil {
		snap.Categories = []model.Category{}
	}
	snap.Settings.Normalize()
	return snap, errors.Join(errs...)
}

func (s *Store) load(ctx context.Context, key string, dst any) error {
	data, ok, err := s.kv.Load(ctx, key)
	if err != nil {
		return &RecordError{Key: key, Op: "read", Err: err}
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &RecordError{Key: key, Op: "decode", Err: err}
	}
	return nil
}

// Save writes every record of the snapshot. It keeps going after a failed
// record so one bad write does not lose the others.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	return errors.Join(
		s.save(ctx, KeyTasks, snap.Tasks),
		s.save(ctx, KeyCategories, snap.Categories),
		s.save(ctx, KeySettings, snap.Settings),
	)
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &RecordError{Key: key, Op: "encode", Err: err}
	}
	if err := s.kv.Save(ctx, key, data); err != nil {
		return &RecordError{Key: key, Op: "write", Err: err}
	}
	return nil
}
