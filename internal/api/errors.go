package api

import "errors"

var (
	ErrAuthFailed  = errors.New("authentication failed")
	ErrRateLimited = errors.New("rate limited by API")
	ErrBadRequest  = errors.New("request rejected by API")
)
