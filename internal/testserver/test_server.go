// Package testserver runs the full HTTP stack against an in-memory
// database for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/nossoday/internal/cache"
	"github.com/ganot/nossoday/internal/clock"
	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/mcp"
	"github.com/ganot/nossoday/internal/metrics"
	"github.com/ganot/nossoday/internal/qrcode"
	"github.com/ganot/nossoday/internal/render"
	"github.com/ganot/nossoday/internal/sqlite"
	"github.com/ganot/nossoday/internal/storage"
	"github.com/ganot/nossoday/internal/transport"
)

// PublicURL is the site base URL the stack is configured with.
const PublicURL = "https://nossoday.test"

// Prices are the plan prices the stack is configured with.
var Prices = map[couple.Plan]string{
	couple.PlanBasic: "price_basic_test",
	couple.PlanPro:   "price_pro_test",
}

type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Clock      *clock.Manual
	Payments   *FakePayments
	Activity   *activity.Service
	UploadsDir string
}

// New starts the stack with the clock fixed at now, read in UTC.
func New(t *testing.T, now time.Time) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clk := clock.NewManual(now)
	uploadsDir := t.TempDir()
	photos, err := storage.NewLocalStore(uploadsDir, storage.DefaultURLPrefix)
	require.NoError(t, err)

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	coupleRepo := cache.NewCoupleRepository(sqlite.NewCoupleRepository(db), time.Minute, nil)
	coupleSvc := couple.NewService(coupleRepo, photos, activitySvc, clk, time.UTC, nil)

	payments := &FakePayments{}
	checkoutSvc := checkout.NewService(payments, qrcode.NewGenerator(128), coupleSvc, activitySvc, checkout.Config{
		PublicURL: PublicURL,
		Prices:    Prices,
	}, nil)

	renderer, err := render.New()
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Couples:  coupleSvc,
			Checkout: checkoutSvc,
			Activity: activitySvc,
		},
		Clock:    clk,
		Location: time.UTC,
	})

	handler := transport.NewServer(transport.Options{
		Couples:        coupleSvc,
		Checkout:       checkoutSvc,
		Renderer:       renderer,
		Metrics:        metrics.New("nossoday_test"),
		MCP:            mcp.NewHTTPHandler(mcpServer, time.Minute, nil),
		UploadsDir:     uploadsDir,
		StreamInterval: time.Second,
		MaxUploadBytes: 1 << 20,
	})
	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		Clock:      clk,
		Payments:   payments,
		Activity:   activitySvc,
		UploadsDir: uploadsDir,
	}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// FakePayments is an in-memory checkout.Provider.
type FakePayments struct {
	mu       sync.Mutex
	requests []checkout.SessionRequest
	// Status is reported as the payment status of every session.
	Status string
	// Err, when set, fails every call.
	Err error
}

func (f *FakePayments) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.requests = append(f.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(f.requests))
	return &checkout.Session{ID: id, URL: "https://checkout.stripe.test/pay/" + id}, nil
}

func (f *FakePayments) GetSession(_ context.Context, id string) (*checkout.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	status := f.Status
	if status == "" {
		status = "paid"
	}
	return &checkout.Session{ID: id, PaymentStatus: status}, nil
}

// Requests returns the session requests received so far.
func (f *FakePayments) Requests() []checkout.SessionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]checkout.SessionRequest(nil), f.requests...)
}
