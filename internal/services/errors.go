package services

import "errors"

var (
	// ErrDatasetNotLoaded is returned when the dataset has not been loaded yet.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrNotFound is wrapped by lookups that miss.
	ErrNotFound = errors.New("not found")
)
