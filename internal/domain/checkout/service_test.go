package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const coupleID = "7f1c2a4e-2d8b-4d1e-9a43-6f0b6f3c1d2e"

type couplesStub map[string]*couple.Couple

func (s couplesStub) Get(_ context.Context, id string) (*couple.Couple, error) {
	c, ok := s[id]
	if !ok {
		return nil, couple.ErrCoupleNotFound
	}
	return c, nil
}

func testConfig() checkout.Config {
	return checkout.Config{
		PublicURL: "https://nossoday.example/",
		Prices: map[couple.Plan]string{
			couple.PlanBasic: "price_basic",
			couple.PlanPro:   "price_pro",
		},
	}
}

func TestCheckoutService_CreateSession(t *testing.T) {
	ctx := context.Background()

	provider := &mocks.PaymentProvider{}
	rec := &mocks.ActivityRecorder{}
	provider.On("CreateSession", ctx, checkout.SessionRequest{
		PriceID:         "price_pro",
		SuccessURL:      "https://nossoday.example/success?session_id={CHECKOUT_SESSION_ID}&coupleId=" + coupleID,
		CancelURL:       "https://nossoday.example/cancel",
		ClientReference: coupleID,
	}).Return(&checkout.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)
	rec.On("Record", ctx, coupleID, activity.TypeCheckoutStarted, mock.Anything).Return()

	svc := checkout.NewService(provider, nil, couplesStub{}, rec, testConfig(), nil)
	sess, err := svc.CreateSession(ctx, "pro", coupleID)
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sess.ID)

	provider.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestCheckoutService_CreateSessionInvalid(t *testing.T) {
	ctx := context.Background()
	provider := &mocks.PaymentProvider{}

	svc := checkout.NewService(provider, nil, couplesStub{}, nil, testConfig(), nil)

	_, err := svc.CreateSession(ctx, "PREMIUM", coupleID)
	require.ErrorIs(t, err, couple.ErrInvalidPlan)

	_, err = svc.CreateSession(ctx, "BASIC", "bogus")
	require.ErrorIs(t, err, couple.ErrInvalidID)

	cfg := testConfig()
	delete(cfg.Prices, couple.PlanPro)
	svc = checkout.NewService(provider, nil, couplesStub{}, nil, cfg, nil)
	_, err = svc.CreateSession(ctx, "PRO", coupleID)
	require.ErrorIs(t, err, checkout.ErrPlanNotPriced)

	provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestCheckoutService_CreateSessionProviderError(t *testing.T) {
	ctx := context.Background()
	provider := &mocks.PaymentProvider{}
	provider.On("CreateSession", ctx, mock.Anything).Return(nil, errors.New("card network down"))

	svc := checkout.NewService(provider, nil, couplesStub{}, nil, testConfig(), nil)
	_, err := svc.CreateSession(ctx, "BASIC", "")
	require.ErrorContains(t, err, "card network down")
}

func TestCheckoutService_Complete(t *testing.T) {
	ctx := context.Background()

	provider := &mocks.PaymentProvider{}
	qr := &mocks.QRGenerator{}
	rec := &mocks.ActivityRecorder{}

	siteURL := "https://nossoday.example/couple/" + coupleID
	provider.On("GetSession", ctx, "cs_test_1").Return(&checkout.Session{ID: "cs_test_1", PaymentStatus: "paid"}, nil)
	qr.On("DataURL", siteURL).Return("data:image/png;base64,AAAA", nil)
	rec.On("Record", ctx, coupleID, activity.TypeCheckoutCompleted, mock.Anything).Return()

	couples := couplesStub{coupleID: {ID: coupleID}}
	svc := checkout.NewService(provider, qr, couples, rec, testConfig(), nil)

	conf, err := svc.Complete(ctx, "cs_test_1", coupleID)
	require.NoError(t, err)
	require.Equal(t, &checkout.Confirmation{
		CoupleID:      coupleID,
		SessionID:     "cs_test_1",
		PaymentStatus: "paid",
		SiteURL:       siteURL,
		QRCodeDataURL: "data:image/png;base64,AAAA",
	}, conf)

	provider.AssertExpectations(t)
	qr.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestCheckoutService_CompleteErrors(t *testing.T) {
	ctx := context.Background()
	provider := &mocks.PaymentProvider{}
	svc := checkout.NewService(provider, &mocks.QRGenerator{}, couplesStub{}, nil, testConfig(), nil)

	_, err := svc.Complete(ctx, "cs_test_1", "")
	require.ErrorIs(t, err, checkout.ErrInvalidInput)

	_, err = svc.Complete(ctx, "", coupleID)
	require.ErrorIs(t, err, checkout.ErrInvalidInput)

	_, err = svc.Complete(ctx, "cs_test_1", coupleID)
	require.ErrorIs(t, err, couple.ErrCoupleNotFound)
}

func TestCheckoutService_Plans(t *testing.T) {
	svc := checkout.NewService(nil, nil, nil, nil, testConfig(), nil)
	require.Equal(t, []checkout.PlanPrice{
		{Plan: couple.PlanBasic, PriceID: "price_basic"},
		{Plan: couple.PlanPro, PriceID: "price_pro"},
	}, svc.Plans())
	require.Equal(t, "https://nossoday.example/couple/abc", svc.SiteURL("abc"))
}
