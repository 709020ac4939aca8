package types

// SuccessEnvelope wraps every 2xx payload so clients always unmarshal the
// same top-level shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Retryable tells the register
// whether re-submitting the same request can succeed (for example after an
// invoice number collision) or whether the cart itself has to change first.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
