package couple

import "errors"

var (
	// ErrCoupleNotFound indicates the couple doesn't exist.
	ErrCoupleNotFound = errors.New("couple not found")
	// ErrInvalidID indicates a malformed couple identifier.
	ErrInvalidID = errors.New("invalid couple id")
	// ErrInvalidInput indicates invalid couple input.
	ErrInvalidInput = errors.New("invalid couple input")
	// ErrInvalidPlan indicates an unknown plan.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrTooManyPhotos indicates more photos than a page can hold.
	ErrTooManyPhotos = errors.New("too many photos")
	// ErrInvalidAnniversary indicates the stored date or time cannot be parsed.
	ErrInvalidAnniversary = errors.New("invalid relationship date")
)
