package services

import "fmt"

// RequestError indicates the generation backend answered with a non-success HTTP status. It carries
// the numeric status code so the UI can surface it.
type RequestError struct {
	Status int
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Status)
}
