package couple

import (
	"context"
	"io"

	"github.com/ganot/nossoday/internal/domain/activity"
)

// Repository provides persistence for couples.
type Repository interface {
	Create(ctx context.Context, c *Couple) error
	Get(ctx context.Context, id string) (*Couple, error)
}

// PhotoStore saves uploaded photos and returns a reference the page can
// load them from.
type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ActivityRecorder appends to the audit trail without failing the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, coupleID string, typ activity.ActivityType, summary string)
}
