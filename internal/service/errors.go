package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate email)
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotEditable is returned when mutating a locked pipeline or category
	ErrNotEditable = errors.New("resource is not editable")

	// ErrStageMismatch is returned when a deal is moved to a stage of a
	// different pipeline
	ErrStageMismatch = errors.New("stage does not belong to the deal's pipeline")

	// ErrDealClosed is returned when mutating a deal that is already won or lost
	ErrDealClosed = errors.New("deal is already closed")

	// ErrMissingLeadFields is returned by lead ingestion when name or
	// email is absent
	ErrMissingLeadFields = errors.New("missing required lead fields")

	// ErrInvalidLeadEmail is returned by lead ingestion for malformed emails
	ErrInvalidLeadEmail = errors.New("invalid lead email format")

	// ErrNoSalesPipeline is returned by lead ingestion when no sales
	// pipeline exists
	ErrNoSalesPipeline = errors.New("no sales pipeline configured")

	// ErrPipelineHasNoStages is returned by lead ingestion when the sales
	// pipeline has no stages
	ErrPipelineHasNoStages = errors.New("sales pipeline has no stages")
)
