package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/elapsed"
)

// naiveLayout formats instants without an offset, matching how the
// calculator reads them.
const naiveLayout = "2006-01-02T15:04:05"

var instantLayouts = []string{
	time.RFC3339,
	naiveLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant accepts a date with optional time. Offsets are accepted
// but only the wall clock fields are used.
func parseInstant(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse instant %q, use YYYY-MM-DD[THH:MM[:SS]]", raw)
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	svc := cfg.Services

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compute_elapsed",
		Description: "Compute the calendar breakdown (years, months, days, hours, minutes, seconds) between two instants using the live counter's borrow rules",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ComputeElapsedParams) (*sdkmcp.CallToolResult, ComputeElapsedResponse, error) {
		start, err := parseInstant(in.Start, cfg.Location)
		if err != nil {
			return nil, ComputeElapsedResponse{}, err
		}
		end := cfg.Clock.Now().In(cfg.Location)
		if strings.TrimSpace(in.End) != "" {
			end, err = parseInstant(in.End, cfg.Location)
			if err != nil {
				return nil, ComputeElapsedResponse{}, err
			}
		}
		return nil, ComputeElapsedResponse{
			Start:   start.Format(naiveLayout),
			End:     end.Format(naiveLayout),
			Elapsed: elapsed.Between(start, end),
		}, nil
	})

	if svc.Couples != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_couple",
			Description: "Get a couple page record with its photos and public URL",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetCoupleParams) (*sdkmcp.CallToolResult, CoupleResponse, error) {
			c, err := svc.Couples.Get(ctx, in.ID)
			if err != nil {
				return nil, CoupleResponse{}, mapError(err)
			}
			siteURL := ""
			if svc.Checkout != nil {
				siteURL = svc.Checkout.SiteURL(c.ID)
			}
			return nil, toCoupleResponse(c, siteURL), nil
		})

		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_elapsed",
			Description: "Get how long a couple has been together as of now",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetElapsedParams) (*sdkmcp.CallToolResult, ElapsedResponse, error) {
			e, err := svc.Couples.Elapsed(ctx, in.ID)
			if err != nil {
				return nil, ElapsedResponse{}, mapError(err)
			}
			return nil, ElapsedResponse{
				CoupleID: e.CoupleID,
				Since:    e.Since.Format(naiveLayout),
				At:       e.At.Format(naiveLayout),
				Elapsed:  e.Breakdown,
			}, nil
		})
	}

	if svc.Checkout != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_plans",
			Description: "List purchasable plans and their payment price IDs",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListPlansParams) (*sdkmcp.CallToolResult, ListPlansResponse, error) {
			return nil, ListPlansResponse{Plans: svc.Checkout.Plans()}, nil
		})
	}

	if svc.Activity != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_activity",
			Description: "List recent activity (page creation, checkout started/completed), newest first",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivityParams) (*sdkmcp.CallToolResult, ListActivityResponse, error) {
			opts := activity.ListActivityOptions{
				CoupleID: in.CoupleID,
				Limit:    in.Limit,
				Offset:   in.Offset,
			}
			if in.Type != "" {
				typ := activity.ActivityType(in.Type)
				opts.ActivityType = &typ
			}
			entries, err := svc.Activity.GetRecentActivity(ctx, opts)
			if err != nil {
				return nil, ListActivityResponse{}, mapError(err)
			}
			return nil, toActivityResponse(entries), nil
		})
	}
}
