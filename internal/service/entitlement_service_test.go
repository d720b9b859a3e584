package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/logging"
	"momentum/internal/model"
)

func TestStaticEntitlements(t *testing.T) {
	ctx := context.Background()

	ent, err := NewStaticEntitlements(model.PremiumProductID).Entitlement(ctx, model.PremiumProductID)
	require.NoError(t, err)
	assert.Equal(t, model.EntitlementOwned, ent)

	ent, err = NewStaticEntitlements().Entitlement(ctx, model.PremiumProductID)
	require.NoError(t, err)
	assert.Equal(t, model.EntitlementNotOwned, ent)
}

func TestEntitlementRefresh(t *testing.T) {
	p, _, _ := newTestPlanner(t)
	svc := NewEntitlementService(NewStaticEntitlements(model.PremiumProductID), p, logging.Discard())

	unlocked, err := svc.Refresh(context.Background(), monday)
	require.NoError(t, err)

	require.Len(t, unlocked, 1)
	assert.Equal(t, model.AchievementPremiumMember, unlocked[0].ID)
	assert.True(t, p.Settings().IsPremium)
	assert.Equal(t, model.PurchaseIdle, svc.State().Kind)
}

func TestEntitlementRefreshErrorKeepsFlag(t *testing.T) {
	p, _, _ := newTestPlanner(t)
	p.SetPremium(context.Background(), true, monday)
	svc := NewEntitlementService(&fakeProvider{err: errBoom}, p, logging.Discard())

	_, err := svc.Refresh(context.Background(), monday)

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, p.Settings().IsPremium)
}

func TestEntitlementRestore(t *testing.T) {
	tests := []struct {
		name        string
		provider    *fakeProvider
		wantKind    model.PurchaseKind
		wantPremium bool
	}{
		{"owned", &fakeProvider{entitlement: model.EntitlementOwned}, model.PurchaseRestored, true},
		{"not owned", &fakeProvider{entitlement: model.EntitlementNotOwned}, model.PurchaseFailed, false},
		{"provider error", &fakeProvider{err: errBoom}, model.PurchaseFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPlanner(t)
			svc := NewEntitlementService(tt.provider, p, logging.Discard())

			state, _ := svc.Restore(context.Background(), monday)

			assert.Equal(t, tt.wantKind, state.Kind)
			assert.Equal(t, state, svc.State())
			assert.Equal(t, tt.wantPremium, p.Settings().IsPremium)
			if state.Failed() {
				assert.NotEmpty(t, state.Message)
			}
		})
	}
}

func TestEntitlementPurchase(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		p, _, _ := newTestPlanner(t)
		svc := NewEntitlementService(NewStaticEntitlements(), p, logging.Discard())

		state, _ := svc.Purchase(context.Background(), monday)

		assert.True(t, state.Failed())
		assert.False(t, p.Settings().IsPremium)
	})

	t.Run("success", func(t *testing.T) {
		p, _, _ := newTestPlanner(t)
		provider := &purchasingProvider{fakeProvider: fakeProvider{entitlement: model.EntitlementNotOwned}}
		svc := NewEntitlementService(provider, p, logging.Discard())

		state, unlocked := svc.Purchase(context.Background(), monday)

		assert.Equal(t, model.PurchasePurchased, state.Kind)
		assert.True(t, provider.purchased)
		assert.True(t, p.Settings().IsPremium)
		assert.Equal(t, 2, p.Settings().FreezeCount)
		require.Len(t, unlocked, 1)
	})

	t.Run("declined", func(t *testing.T) {
		p, _, _ := newTestPlanner(t)
		provider := &purchasingProvider{fakeProvider: fakeProvider{purchaseErr: errBoom}}
		svc := NewEntitlementService(provider, p, logging.Discard())

		state, _ := svc.Purchase(context.Background(), monday)

		assert.Equal(t, model.PurchaseFailed, state.Kind)
		assert.False(t, p.Settings().IsPremium)
	})
}
