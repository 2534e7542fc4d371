package quarter

import "github.com/m-mizutani/goerr/v2"

var (
	ErrTagInvalidTimezone  = goerr.NewTag("invalid_timezone")
	ErrTagInvalidCivilTime = goerr.NewTag("invalid_civil_time")
	ErrTagNotFound         = goerr.NewTag("quarter_not_found")
)
