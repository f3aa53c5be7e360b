package couple

import (
	"time"

	"github.com/ganot/nossoday/internal/elapsed"
)

// Plan identifies a purchasable page plan.
type Plan string

const (
	PlanBasic Plan = "BASIC"
	PlanPro   Plan = "PRO"
)

// Plans lists every known plan in display order.
func Plans() []Plan {
	return []Plan{PlanBasic, PlanPro}
}

// Couple is the stored record behind a couple page. Field names on the
// wire match the form fields of the create endpoint.
type Couple struct {
	ID               string    `json:"id"`
	Name             string    `json:"couplename"`
	RelationshipDate string    `json:"relationshipDate"`
	RelationshipTime string    `json:"relationshipTime,omitempty"`
	Message          string    `json:"message"`
	Plan             Plan      `json:"plan,omitempty"`
	YouTubeVideo     string    `json:"youtubeVideo,omitempty"`
	Photos           []string  `json:"files"`
	CreatedAt        time.Time `json:"created_at"`
}

// Elapsed is the breakdown from a couple's anniversary to a given instant.
type Elapsed struct {
	CoupleID  string            `json:"couple_id"`
	Since     time.Time         `json:"since"`
	At        time.Time         `json:"at"`
	Breakdown elapsed.Breakdown `json:"elapsed"`
}

// Page is everything needed to render a couple page.
type Page struct {
	Couple  *Couple
	Since   time.Time
	Elapsed elapsed.Breakdown
	VideoID string
}
