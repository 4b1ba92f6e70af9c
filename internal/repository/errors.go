// Package repository defines the persistence contracts for rooms,
// reservations and users together with the sentinel errors every backend
// returns. Handlers and services compare against these values with
// errors.Is to choose a response, so backends must never leak driver
// specific "no rows" or "duplicate key" errors.
package repository

import "errors"

// ErrNotFound is returned when a well formed identifier matches no record.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an identifier is not a 24 character hex
// object id. Handlers translate it into HTTP 400.
var ErrInvalidID = errors.New("invalid id format")

// ErrConflict is returned when a room number is already taken.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an email that is in use.
var ErrEmailExists = errors.New("email already exists")

// ErrWindowChanged is returned by ReplaceDates when the stored window no
// longer equals the expected previous value.
var ErrWindowChanged = errors.New("available dates changed concurrently")
