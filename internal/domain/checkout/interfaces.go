package checkout

import (
	"context"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/couple"
)

// Provider creates and retrieves hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

// QRGenerator renders a URL as an embeddable image data URL.
type QRGenerator interface {
	DataURL(content string) (string, error)
}

// Couples looks up couple records.
type Couples interface {
	Get(ctx context.Context, id string) (*couple.Couple, error)
}

// ActivityRecorder appends to the audit trail without failing the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, coupleID string, typ activity.ActivityType, summary string)
}
