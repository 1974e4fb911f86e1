// Package types holds the JSON envelopes shared by every TeklifDesk
// API response. Handlers never marshal these directly; api/responses
// does the writing.
package types

// SuccessEnvelope wraps a successful payload under the "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError pairs a stable machine-readable code (VALIDATION_ERROR,
// NOT_FOUND, ...) with a human message. Details carries field-level
// validation output when the decoder produces it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
