package couple

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPhotos is the number of photos a page carousel holds.
const MaxPhotos = 7

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	timeLayoutSecs = "15:04:05"
)

// ParsePlan normalizes a plan name. The empty string is not a plan.
func ParsePlan(raw string) (Plan, error) {
	p := Plan(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Plans() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlan, raw)
}

// ValidateID checks that id is a couple identifier.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// ParseAnniversary combines a date and an optional time of day into an
// instant in loc. A missing time means midnight.
func ParseAnniversary(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)

	d, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidAnniversary, date)
	}
	if timeOfDay == "" {
		return d, nil
	}

	layout := timeLayout
	if strings.Count(timeOfDay, ":") == 2 {
		layout = timeLayoutSecs
	}
	tod, err := time.Parse(layout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidAnniversary, timeOfDay)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, loc), nil
}

// VideoID extracts the YouTube video id from a watch, short or embed
// link. It returns "" when no id can be found.
func VideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	p := strings.Trim(u.Path, "/")
	switch {
	case host == "youtu.be":
		return path.Base("/" + p)
	case strings.HasPrefix(p, "embed/"), strings.HasPrefix(p, "shorts/"):
		return path.Base(p)
	}
	return ""
}

// photoKey names an uploaded photo inside the photo store.
func photoKey(now time.Time, index int, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		name = "photo"
	}
	return fmt.Sprintf("%d-%d-%s", now.UnixMilli(), index, name)
}
