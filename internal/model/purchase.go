package model

// PremiumProductID is the only purchasable product.
const PremiumProductID = "premium"

// Entitlement is the ownership state reported for a product.
type Entitlement string

const (
	EntitlementOwned    Entitlement = "owned"
	EntitlementNotOwned Entitlement = "not_owned"
)

// PurchaseKind tags a PurchaseState.
type PurchaseKind string

const (
	PurchaseIdle       PurchaseKind = "idle"
	PurchasePurchasing PurchaseKind = "purchasing"
	PurchasePurchased  PurchaseKind = "purchased"
	PurchaseRestored   PurchaseKind = "restored"
	PurchaseFailed     PurchaseKind = "failed"
)

// PurchaseState reports the outcome of a purchase or restore attempt.
// Message is only set for PurchaseFailed.
type PurchaseState struct {
	Kind    PurchaseKind `json:"kind"`
	Message string       `json:"message,omitempty"`
}

func PurchaseFailure(msg string) PurchaseState {
	return PurchaseState{Kind: PurchaseFailed, Message: msg}
}

func (s PurchaseState) Failed() bool {
	return s.Kind == PurchaseFailed
}
