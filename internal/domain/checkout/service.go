package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/couple"
)

// sessionIDPlaceholder is substituted by the provider on redirect.
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// Config holds checkout settings.
type Config struct {
	// PublicURL is the externally reachable base URL of the site.
	PublicURL string
	// Prices maps plans to provider price identifiers.
	Prices map[couple.Plan]string
}

// Service handles plan checkout and post-payment confirmation.
type Service struct {
	provider Provider
	qr       QRGenerator
	couples  Couples
	activity ActivityRecorder
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a new checkout service.
func NewService(provider Provider, qr QRGenerator, couples Couples, activities ActivityRecorder, cfg Config, logger *slog.Logger) *Service {
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &Service{
		provider: provider,
		qr:       qr,
		couples:  couples,
		activity: activities,
		cfg:      cfg,
		logger:   logger,
	}
}

// Plans lists the purchasable plans with their prices.
func (s *Service) Plans() []PlanPrice {
	plans := make([]PlanPrice, 0, len(s.cfg.Prices))
	for _, p := range couple.Plans() {
		if price, ok := s.cfg.Prices[p]; ok && price != "" {
			plans = append(plans, PlanPrice{Plan: p, PriceID: price})
		}
	}
	return plans
}

// CreateSession starts a hosted checkout for plan on behalf of a couple.
func (s *Service) CreateSession(ctx context.Context, plan, coupleID string) (*Session, error) {
	p, err := couple.ParsePlan(plan)
	if err != nil {
		return nil, err
	}
	price := s.cfg.Prices[p]
	if price == "" {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotPriced, p)
	}
	if coupleID != "" {
		if err := couple.ValidateID(coupleID); err != nil {
			return nil, err
		}
	}

	sess, err := s.provider.CreateSession(ctx, SessionRequest{
		PriceID:         price,
		SuccessURL:      s.successURL(coupleID),
		CancelURL:       s.cfg.PublicURL + "/cancel",
		ClientReference: coupleID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("checkout session created", "session_id", sess.ID, "plan", p, "couple_id", coupleID)
	}
	if s.activity != nil && coupleID != "" {
		s.activity.Record(ctx, coupleID, activity.TypeCheckoutStarted, fmt.Sprintf("checkout %s started for plan %s", sess.ID, p))
	}
	return sess, nil
}

// Complete confirms a finished checkout and builds the couple's shareable
// link and QR code.
func (s *Service) Complete(ctx context.Context, sessionID, coupleID string) (*Confirmation, error) {
	if strings.TrimSpace(coupleID) == "" {
		return nil, fmt.Errorf("%w: couple id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	c, err := s.couples.Get(ctx, coupleID)
	if err != nil {
		return nil, err
	}

	sess, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieving checkout session: %w", err)
	}

	siteURL := s.SiteURL(c.ID)
	qr, err := s.qr.DataURL(siteURL)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}

	if s.activity != nil {
		s.activity.Record(ctx, c.ID, activity.TypeCheckoutCompleted, fmt.Sprintf("checkout %s completed (%s)", sess.ID, sess.PaymentStatus))
	}

	return &Confirmation{
		CoupleID:      c.ID,
		SessionID:     sess.ID,
		PaymentStatus: sess.PaymentStatus,
		SiteURL:       siteURL,
		QRCodeDataURL: qr,
	}, nil
}

// SiteURL is the public address of a couple page.
func (s *Service) SiteURL(coupleID string) string {
	return s.cfg.PublicURL + "/couple/" + url.PathEscape(coupleID)
}

func (s *Service) successURL(coupleID string) string {
	q := url.Values{}
	q.Set("coupleId", coupleID)
	// The placeholder must survive unescaped for the provider to expand it.
	return s.cfg.PublicURL + "/success?session_id=" + sessionIDPlaceholder + "&" + q.Encode()
}
