package mcp

import (
	"time"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/elapsed"
)

type ComputeElapsedParams struct {
	Start string `json:"start" jsonschema:"Start instant, e.g. 2020-06-15T18:30:00 or 2020-06-15. Read as a wall clock, any offset is ignored."`
	End   string `json:"end,omitempty" jsonschema:"End instant in the same formats. Defaults to now."`
}

type ComputeElapsedResponse struct {
	Start   string            `json:"start"`
	End     string            `json:"end"`
	Elapsed elapsed.Breakdown `json:"elapsed"`
}

type GetCoupleParams struct {
	ID string `json:"id" jsonschema:"Couple ID (UUID)"`
}

type CoupleResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	RelationshipDate string   `json:"relationship_date"`
	RelationshipTime string   `json:"relationship_time,omitempty"`
	Message          string   `json:"message,omitempty"`
	Plan             string   `json:"plan,omitempty"`
	YouTubeVideo     string   `json:"youtube_video,omitempty"`
	Photos           []string `json:"photos"`
	SiteURL          string   `json:"site_url"`
	CreatedAt        string   `json:"created_at"`
}

type GetElapsedParams struct {
	ID string `json:"id" jsonschema:"Couple ID (UUID)"`
}

type ElapsedResponse struct {
	CoupleID string            `json:"couple_id"`
	Since    string            `json:"since"`
	At       string            `json:"at"`
	Elapsed  elapsed.Breakdown `json:"elapsed"`
}

type ListPlansParams struct{}

type ListPlansResponse struct {
	Plans []checkout.PlanPrice `json:"plans"`
}

type ListActivityParams struct {
	CoupleID string `json:"couple_id,omitempty" jsonschema:"Only entries for this couple"`
	Type     string `json:"type,omitempty" jsonschema:"Only entries of this type: couple_created, checkout_started or checkout_completed"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 50)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Entries to skip"`
}

type ActivityEntryResponse struct {
	ID        int64  `json:"id"`
	CoupleID  string `json:"couple_id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

const wireTime = time.RFC3339

func toCoupleResponse(c *couple.Couple, siteURL string) CoupleResponse {
	photos := c.Photos
	if photos == nil {
		photos = []string{}
	}
	return CoupleResponse{
		ID:               c.ID,
		Name:             c.Name,
		RelationshipDate: c.RelationshipDate,
		RelationshipTime: c.RelationshipTime,
		Message:          c.Message,
		Plan:             string(c.Plan),
		YouTubeVideo:     c.YouTubeVideo,
		Photos:           photos,
		SiteURL:          siteURL,
		CreatedAt:        c.CreatedAt.Format(wireTime),
	}
}

func toActivityResponse(entries []activity.ActivityEntry) ListActivityResponse {
	resp := ListActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, ActivityEntryResponse{
			ID:        e.ID,
			CoupleID:  e.CoupleID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.Format(wireTime),
		})
	}
	return resp
}
