package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/nossoday/internal/clock"
	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
)

// CoupleService defines couple operations needed by MCP.
type CoupleService interface {
	Get(ctx context.Context, id string) (*couple.Couple, error)
	Elapsed(ctx context.Context, id string) (*couple.Elapsed, error)
}

// CheckoutService defines checkout operations needed by MCP.
type CheckoutService interface {
	Plans() []checkout.PlanPrice
	SiteURL(coupleID string) string
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Couples  CoupleService
	Checkout CheckoutService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Clock supplies "now" for compute_elapsed when no end is given.
	Clock clock.Clock
	// Location is where naive timestamps are read.
	Location *time.Location
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "nossoday",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server, sessionTimeout time.Duration, logger *slog.Logger) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: sessionTimeout,
			Logger:         logger,
		},
	)
}
