package checkout

import "github.com/ganot/nossoday/internal/domain/couple"

// SessionRequest describes a hosted checkout session for a single plan.
type SessionRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	// ClientReference ties the provider session back to a couple.
	ClientReference string
}

// Session is a provider checkout session.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

// PlanPrice pairs a plan with the provider price it is sold at.
type PlanPrice struct {
	Plan    couple.Plan `json:"plan"`
	PriceID string      `json:"price_id"`
}

// Confirmation is shown after a successful checkout.
type Confirmation struct {
	CoupleID      string `json:"couple_id"`
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status,omitempty"`
	SiteURL       string `json:"site_url"`
	QRCodeDataURL string `json:"qr_code"`
}
