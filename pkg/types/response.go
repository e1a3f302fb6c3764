package types

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageEnvelope is the body for endpoints that confirm an action
// without returning a resource, and for the clear-cart response.
type MessageEnvelope struct {
	Message string `json:"message"`
}
