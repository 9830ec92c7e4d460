// Package dto provides Data Transfer Objects for API requests.
// Domain entities carry their own JSON shape and serve as responses;
// DTOs exist where the wire format needs binding rules or ID parsing.
package dto

import (
	"stocktally/internal/core/apperror"
	"stocktally/internal/core/id"
)

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// parseID parses an ID string into a typed ID with a field-tagged
// validation error on failure.
func parseID(raw, field string) (id.ID, error) {
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").
			WithDetail("field", field)
	}
	return parsed, nil
}

// parseOptionalID parses a nullable ID string.
func parseOptionalID(raw *string, field string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := parseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
