package checkout

import "errors"

var (
	// ErrInvalidInput indicates a missing or malformed checkout parameter.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrPlanNotPriced indicates a plan has no configured price.
	ErrPlanNotPriced = errors.New("plan has no price")
)
