package provider

import (
	"chatterm/model"
)

// emptyResponseError reports a reply with no choices or no text.
// It matches model.ErrEmptyCompletion with errors.Is.
type emptyResponseError struct {
	service string
}

func (e emptyResponseError) Error() string {
	return "Empty response from " + e.service + " API"
}

func (e emptyResponseError) Unwrap() error {
	return model.ErrEmptyCompletion
}

func emptyResponse(service string) error {
	return emptyResponseError{service: service}
}
