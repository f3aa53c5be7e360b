package mocks

import (
	"context"
	"io"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/stretchr/testify/mock"
)

// CoupleRepository is a mock for couple.Repository.
type CoupleRepository struct {
	mock.Mock
}

func (m *CoupleRepository) Create(ctx context.Context, c *couple.Couple) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CoupleRepository) Get(ctx context.Context, id string) (*couple.Couple, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*couple.Couple); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRecorder is a mock for couple.ActivityRecorder and checkout.ActivityRecorder.
type ActivityRecorder struct {
	mock.Mock
}

func (m *ActivityRecorder) Record(ctx context.Context, coupleID string, typ activity.ActivityType, summary string) {
	m.Called(ctx, coupleID, typ, summary)
}

// PhotoStore is a mock for couple.PhotoStore. The body is drained so
// callers can assert on what was uploaded.
type PhotoStore struct {
	mock.Mock
}

func (m *PhotoStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, key, string(data), contentType)
	return args.String(0), args.Error(1)
}

// PaymentProvider is a mock for checkout.Provider.
type PaymentProvider struct {
	mock.Mock
}

func (m *PaymentProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	args := m.Called(ctx, req)
	if sess, ok := args.Get(0).(*checkout.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentProvider) GetSession(ctx context.Context, id string) (*checkout.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*checkout.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

// QRGenerator is a mock for checkout.QRGenerator.
type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) DataURL(content string) (string, error) {
	args := m.Called(content)
	return args.String(0), args.Error(1)
}
