package domain

import "errors"

var (
	// ErrCapacityExceeded is returned when the comparison set already holds the maximum number of products
	ErrCapacityExceeded = errors.New("comparison set is full")

	// ErrDuplicateEntry is returned when the analysis is already staged for comparison
	ErrDuplicateEntry = errors.New("product already in comparison")

	// ErrFetchFailed is returned when the backend cannot resolve or list products
	ErrFetchFailed = errors.New("backend request failed")

	// ErrStorageCorrupted is reported when the persisted comparison set cannot be read
	ErrStorageCorrupted = errors.New("persisted comparison set is corrupted")

	// ErrSlotNotFound is returned by slot storage when a key has never been written
	ErrSlotNotFound = errors.New("storage slot not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the backend token is missing, expired or rejected
	ErrUnauthorized = errors.New("unauthorized")
)
