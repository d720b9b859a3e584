package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"momentum/internal/model"
)

// EntitlementProvider reports whether a product is owned.
type EntitlementProvider interface {
	Entitlement(ctx context.Context, productID string) (model.Entitlement, error)
}

// Purchaser is implemented by providers that can sell a product.
type Purchaser interface {
	Purchase(ctx context.Context, productID string) error
}

// StaticEntitlements answers from a fixed set of owned products.
type StaticEntitlements struct {
	owned map[string]bool
}

func NewStaticEntitlements(owned ...string) *StaticEntitlements {
	s := &StaticEntitlements{owned: make(map[string]bool, len(owned))}
	for _, id := range owned {
		s.owned[id] = true
	}
	return s
}

func (s *StaticEntitlements) Entitlement(_ context.Context, productID string) (model.Entitlement, error) {
	if s.owned[productID] {
		return model.EntitlementOwned, nil
	}
	return model.EntitlementNotOwned, nil
}

// EntitlementService keeps the planner's premium flag in line with the
// provider and tracks the last purchase attempt.
type EntitlementService struct {
	provider EntitlementProvider
	planner  *PlannerService
	log      *slog.Logger

	mu    sync.Mutex
	state model.PurchaseState
}

func NewEntitlementService(provider EntitlementProvider, planner *PlannerService, log *slog.Logger) *EntitlementService {
	return &EntitlementService{
		provider: provider,
		planner:  planner,
		log:      log,
		state:    model.PurchaseState{Kind: model.PurchaseIdle},
	}
}

// State returns the outcome of the last purchase or restore attempt.
func (s *EntitlementService) State() model.PurchaseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh checks the entitlement without user action, as done on startup.
// A failed check leaves the premium flag untouched.
func (s *EntitlementService) Refresh(ctx context.Context, now time.Time) ([]model.Achievement, error) {
	owned, err := s.owned(ctx)
	if err != nil {
		return nil, err
	}
	return s.planner.SetPremium(ctx, owned, now), nil
}

// Purchase buys premium through the provider when it supports purchases.
func (s *EntitlementService) Purchase(ctx context.Context, now time.Time) (model.PurchaseState, []model.Achievement) {
	p, ok := s.provider.(Purchaser)
	if !ok {
		return s.finish(model.PurchaseFailure("Purchases are not available on this installation.")), nil
	}

	s.setState(model.PurchaseState{Kind: model.PurchasePurchasing})
	if err := p.Purchase(ctx, model.PremiumProductID); err != nil {
		s.log.Warn("purchase premium", "error", err)
		return s.finish(model.PurchaseFailure("The purchase could not be completed.")), nil
	}

	owned, err := s.owned(ctx)
	if err != nil {
		return s.finish(model.PurchaseFailure("The purchase could not be verified.")), nil
	}
	unlocked := s.planner.SetPremium(ctx, owned, now)
	if !owned {
		return s.finish(model.PurchaseFailure("The purchase is still pending.")), unlocked
	}
	return s.finish(model.PurchaseState{Kind: model.PurchasePurchased}), unlocked
}

// Restore re-checks ownership of a previous purchase.
func (s *EntitlementService) Restore(ctx context.Context, now time.Time) (model.PurchaseState, []model.Achievement) {
	owned, err := s.owned(ctx)
	if err != nil {
		return s.finish(model.PurchaseFailure("Purchases could not be checked. Try again later.")), nil
	}
	unlocked := s.planner.SetPremium(ctx, owned, now)
	if !owned {
		return s.finish(model.PurchaseFailure("No previous purchase was found.")), unlocked
	}
	return s.finish(model.PurchaseState{Kind: model.PurchaseRestored}), unlocked
}

func (s *EntitlementService) owned(ctx context.Context) (bool, error) {
	ent, err := s.provider.Entitlement(ctx, model.PremiumProductID)
	if err != nil {
		s.log.Warn("check entitlement", "error", err)
		return false, err
	}
	return ent == model.EntitlementOwned, nil
}

func (s *EntitlementService) setState(st model.PurchaseState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func (s *EntitlementService) finish(st model.PurchaseState) model.PurchaseState {
	s.setState(st)
	s.log.Info("purchase state", "kind", st.Kind, "message", st.Message)
	return st
}
