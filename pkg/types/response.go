package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
