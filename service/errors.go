package service

import (
	"errors"
	"gorm.io/gorm"
)

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRule         = errors.New("domain rule violated")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrSeriesNotFound     = &Error{Kind: ErrNotFound, Code: "series_not_found"}
	ErrEpisodeNotFound    = &Error{Kind: ErrNotFound, Code: "episode_not_found"}
	ErrJobNotFound        = &Error{Kind: ErrNotFound, Code: "job_not_found"}
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Code: "user_not_found"}
	ErrInvalidRawKey      = &Error{Kind: ErrValidation, Code: "invalid_raw_key", Hint: "Upload first; rawKey must start with raw/ or be a valid URL"}
	ErrInvalidPayload     = &Error{Kind: ErrValidation, Code: "invalid_payload"}
	ErrInsufficientCoins  = &Error{Kind: ErrRule, Code: "insufficient_coins"}
	ErrInvalidMethod      = &Error{Kind: ErrRule, Code: "invalid_method"}
	ErrMissingRawSource   = &Error{Kind: ErrRule, Code: "missing_raw", Hint: "Attach a raw upload or URL to the episode first"}
	ErrRawTooSmall        = &Error{Kind: ErrRule, Code: "raw_too_small"}
	ErrEpisodeNotReady    = &Error{Kind: ErrRule, Code: "episode_not_ready"}
	ErrEpisodeNumberTaken = &Error{Kind: ErrRule, Code: "episode_number_already_exists"}
	ErrMissingTemplate    = &Error{Kind: ErrRule, Code: "missing_template_episode", Hint: "Publish at least 1 episode in this series (with processed videoKey) before seeding."}
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Code: "invalid_credentials"}
	ErrStaleAttempt       = &Error{Kind: ErrConflict, Code: "stale_attempt", Hint: "The job was reclaimed by another worker"}
)

// Error is a domain error with a machine-readable code.
type Error struct {
	Kind    error
	Code    string
	Hint    string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return e.Code + ": " + e.Hint
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Is matches any *Error with the same code, so copies made by WithHint and
// WithDetails still match the package-level values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) WithHint(hint string) *Error {
	c := *e
	c.Hint = hint
	return &c
}

func (e *Error) WithDetails(details map[string]any) *Error {
	c := *e
	c.Details = details
	return &c
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err error, as *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return err
}
