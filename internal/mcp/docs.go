package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `nossoday serves couple pages that count how long a couple has been together.

Tools:
- compute_elapsed: pure calculator, no stored data needed.
- get_couple / get_elapsed: look up a stored couple by UUID.
- list_plans: purchasable plans and their price IDs.
- list_activity: audit trail of page creation and checkouts.

Read nossoday://docs/counter before explaining a breakdown to a user; the
counter's borrow rules can produce surprising values near month ends.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "nossoday://docs/counter",
		Name:        "docs_counter",
		Title:       "How the together-time counter works",
		Description: "Field-by-field subtraction with a single borrow pass, and the edge cases it produces.",
		Content: `# Together-time counter

The counter shows years, months, days, hours, minutes and seconds between the
anniversary and now. Both instants are read as wall clock fields; time zones
are not modelled.

## Algorithm

1. Subtract each field of the start from the same field of the end.
2. Borrow exactly once per field, in this order:
   - seconds < 0: add 60, take one minute
   - minutes < 0: add 60, take one hour
   - hours < 0: add 24, take one day
   - days < 0: add the length of the month before the end's month, take one month
   - months < 0: add 12, take one year
3. Nothing is re-checked after a later borrow.

## Edge cases

- 2024-01-31 to 2024-03-01 gives 1 month and -1 days: February 2024 has 29
  days, which is not enough to make the day count positive.
- An end before the start is not rejected; the mechanical result is returned.
- Leap years follow the Gregorian calendar (2000 is leap, 1900 is not).

## Examples

| Start | End | Result |
|---|---|---|
| 2020-06-15 10:00:00 | 2023-06-15 10:00:00 | 3y 0m 0d 0h 0m 0s |
| 2024-03-15 23:59:59 | 2024-03-16 00:00:01 | 0y 0m 0d 0h 0m 2s |
| 2024-01-31 00:00:00 | 2024-03-01 00:00:00 | 0y 1m -1d 0h 0m 0s |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
