package model

type ErrorResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
}
