package couple

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/nossoday/internal/clock"
	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/elapsed"
	"github.com/ganot/nossoday/internal/repository"
	"github.com/google/uuid"
)

// Service handles couple page operations.
type Service struct {
	repo     Repository
	photos   PhotoStore
	activity ActivityRecorder
	clock    clock.Clock
	location *time.Location
	logger   *slog.Logger
}

// NewService creates a new couple service. Anniversaries are read as
// naive wall-clock values in loc.
func NewService(
	repo Repository,
	photos PhotoStore,
	activities ActivityRecorder,
	clk clock.Clock,
	loc *time.Location,
	logger *slog.Logger,
) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		photos:   photos,
		activity: activities,
		clock:    clk,
		location: loc,
		logger:   logger,
	}
}

// Upload is a photo received with a create request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateRequest defines couple creation inputs.
type CreateRequest struct {
	Name             string
	RelationshipDate string
	RelationshipTime string
	Message          string
	Plan             string
	YouTubeVideo     string
	Photos           []Upload
}

// Create validates the request, stores the photos and persists the couple.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Couple, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := ParseAnniversary(req.RelationshipDate, req.RelationshipTime, s.location); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	var plan Plan
	if strings.TrimSpace(req.Plan) != "" {
		p, err := ParsePlan(req.Plan)
		if err != nil {
			return nil, err
		}
		plan = p
	}
	if len(req.Photos) > MaxPhotos {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPhotos, len(req.Photos), MaxPhotos)
	}

	now := s.clock.Now()
	photos := make([]string, 0, len(req.Photos))
	for i, up := range req.Photos {
		if s.photos == nil {
			return nil, errors.New("photo storage is not configured")
		}
		ref, err := s.photos.Put(ctx, photoKey(now, i, up.Filename), up.Body, up.ContentType)
		if err != nil {
			return nil, fmt.Errorf("storing photo %q: %w", up.Filename, err)
		}
		photos = append(photos, ref)
	}

	c := &Couple{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(req.Name),
		RelationshipDate: strings.TrimSpace(req.RelationshipDate),
		RelationshipTime: strings.TrimSpace(req.RelationshipTime),
		Message:          req.Message,
		Plan:             plan,
		YouTubeVideo:     strings.TrimSpace(req.YouTubeVideo),
		Photos:           photos,
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating couple: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("couple created", "couple_id", c.ID, "photos", len(photos), "plan", c.Plan)
	}
	if s.activity != nil {
		s.activity.Record(ctx, c.ID, activity.TypeCoupleCreated, fmt.Sprintf("created couple page %q", c.Name))
	}

	return c, nil
}

// Get fetches a couple by ID.
func (s *Service) Get(ctx context.Context, id string) (*Couple, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoupleNotFound
		}
		return nil, fmt.Errorf("getting couple: %w", err)
	}
	return c, nil
}

// Since returns the couple's anniversary instant.
func (s *Service) Since(c *Couple) (time.Time, error) {
	return ParseAnniversary(c.RelationshipDate, c.RelationshipTime, s.location)
}

// Elapsed computes the time since the couple's anniversary as of now.
func (s *Service) Elapsed(ctx context.Context, id string) (*Elapsed, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	since, err := s.Since(c)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().In(s.location)
	return &Elapsed{
		CoupleID:  c.ID,
		Since:     since,
		At:        now,
		Breakdown: elapsed.Between(since, now),
	}, nil
}

// Page gathers the data rendered on a couple page.
func (s *Service) Page(ctx context.Context, id string) (*Page, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	since, err := s.Since(c)
	if err != nil {
		return nil, err
	}
	return &Page{
		Couple:  c,
		Since:   since,
		Elapsed: elapsed.Between(since, s.clock.Now().In(s.location)),
		VideoID: VideoID(c.YouTubeVideo),
	}, nil
}

// Counter returns a live counter for the couple that writes to sink.
// The caller owns the counter and must run and stop it.
func (s *Service) Counter(ctx context.Context, id string, interval time.Duration, sink elapsed.Sink) (*elapsed.Counter, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	since, err := s.Since(c)
	if err != nil {
		return nil, err
	}
	return elapsed.NewCounter(since, localClock{s.clock, s.location}, interval, sink), nil
}

// localClock reads another clock in a fixed location so breakdowns use
// the same wall clock as the stored anniversary.
type localClock struct {
	clock.Clock
	loc *time.Location
}

func (c localClock) Now() time.Time {
	return c.Clock.Now().In(c.loc)
}
