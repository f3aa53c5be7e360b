package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/repository"
)

var _ couple.Repository = (*CoupleRepository)(nil)

// CoupleRepository implements couple.Repository for SQLite
type CoupleRepository struct {
	db *DB
}

// NewCoupleRepository creates a new CoupleRepository
func NewCoupleRepository(db *DB) *CoupleRepository {
	return &CoupleRepository{db: db}
}

// Create inserts a couple and its ordered photo references
func (r *CoupleRepository) Create(ctx context.Context, c *couple.Couple) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO couples (id, name, relationship_date, relationship_time, message, plan, youtube_video, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.RelationshipDate,
		c.RelationshipTime,
		c.Message,
		string(c.Plan),
		c.YouTubeVideo,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create couple: %w", err)
	}

	for i, url := range c.Photos {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO couple_photos (couple_id, position, url) VALUES (?, ?, ?)`,
			c.ID, i, url,
		)
		if err != nil {
			return fmt.Errorf("failed to add photo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.CreatedAt = createdAt
	return nil
}

// Get retrieves a couple with its photos in upload order
func (r *CoupleRepository) Get(ctx context.Context, id string) (*couple.Couple, error) {
	query := `
		SELECT id, name, relationship_date, relationship_time, message, plan, youtube_video, created_at
		FROM couples
		WHERE id = ?
	`

	var c couple.Couple
	var plan string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.RelationshipDate,
		&c.RelationshipTime,
		&c.Message,
		&plan,
		&c.YouTubeVideo,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	c.Plan = couple.Plan(plan)

	photos, err := r.photos(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Photos = photos

	return &c, nil
}

func (r *CoupleRepository) photos(ctx context.Context, coupleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT url FROM couple_photos WHERE couple_id = ? ORDER BY position ASC`,
		coupleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo rows: %w", err)
	}

	return photos, nil
}
