package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"momentum/internal/model"
)

// CategoryInput represents the editable fields of a category.
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
}

func (in CategoryInput) normalize() (CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, ErrInvalidName
	}
	in.Color = strings.TrimSpace(in.Color)
	in.Icon = strings.TrimSpace(in.Icon)
	return in, nil
}

// Categories returns all categories in creation order.
func (p *PlannerService) Categories() []model.Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.snap.Categories)
}

// Category returns a single category by id.
func (p *PlannerService) Category(id string) (model.Category, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.categoryIndexLocked(id)
	if idx < 0 {
		return model.Category{}, ErrCategoryNotFound
	}
	return p.snap.Categories[idx], nil
}

// CreateCategory adds a category, or returns the existing one with the same
// name (case-insensitive). New categories are checked against the category
// count achievements; newly unlocked ones are returned.
func (p *PlannerService) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, []model.Achievement, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Category{}, nil, fmt.Errorf("create category: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.snap.Categories {
		if strings.EqualFold(c.Name, in.Name) {
			return c, nil, nil
		}
	}

	category := model.Category{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Color: in.Color,
		Icon:  in.Icon,
	}
	p.snap.Categories = append(p.snap.Categories, category)
	unlocked := p.checkUnlocksLocked(nil)
	p.saveLocked(ctx)

	p.log.Info("category created", "id", category.ID)
	return category, unlocked, nil
}

func (p *PlannerService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (model.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.categoryIndexLocked(id)
	if idx < 0 {
		return model.Category{}, fmt.Errorf("update category: %w", ErrCategoryNotFound)
	}
	c := &p.snap.Categories[idx]
	c.Name, c.Color, c.Icon = in.Name, in.Color, in.Icon
	p.saveLocked(ctx)
	return *c, nil
}

// DeleteCategory removes a category and clears it from every task that
// referenced it. Tasks themselves are kept. It returns how many tasks were
// detached.
func (p *PlannerService) DeleteCategory(ctx context.Context, id string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.categoryIndexLocked(id)
	if idx < 0 {
		return 0, fmt.Errorf("delete category: %w", ErrCategoryNotFound)
	}
	p.snap.Categories = slices.Delete(p.snap.Categories, idx, idx+1)

	detached := 0
	for i := range p.snap.Tasks {
		if p.snap.Tasks[i].InCategory(id) {
			p.snap.Tasks[i].CategoryID = nil
			detached++
		}
	}
	p.saveLocked(ctx)

	p.log.Info("category deleted", "id", id, "detached_tasks", detached)
	return detached, nil
}

func (p *PlannerService) categoryIndexLocked(id string) int {
	return slices.IndexFunc(p.snap.Categories, func(c model.Category) bool { return c.ID == id })
}
