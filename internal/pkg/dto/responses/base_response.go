package responses

type ResponseDTO struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseDTO carries debug detail only outside production.
type ErrorResponseDTO struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	RequestID  string      `json:"request_id,omitempty"`
	DevMessage string      `json:"dev_message,omitempty"`
	Locations  interface{} `json:"locations,omitempty"`
}
