package domain

import "errors"

// ErrEmailTaken is returned by the user store when a signup collides with an
// existing account. Missing users and bad credentials are represented by nil
// lookups; only the uniqueness violation needs a sentinel.
var ErrEmailTaken = errors.New("email already registered")
