package types

// SuccessEnvelope wraps every successful JSON payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the body clients render on failure. For validation failures
// Details maps JSON field names to the message shown beside that input in the
// booking wizard or account forms.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed JSON payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
