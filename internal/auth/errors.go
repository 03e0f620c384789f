package auth

import "errors"

// ErrNoToken is returned when a request carries no Authorization header.
var ErrNoToken = errors.New("no token provided")
