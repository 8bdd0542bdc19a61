package service

import "errors"

// ErrNotStarted is returned by request methods before Start succeeds.
var ErrNotStarted = errors.New("service not started")
