package repository

import "errors"

// ErrNotPending is returned when a moderation transition targets a row that already left pending.
var ErrNotPending = errors.New("record is no longer pending")
