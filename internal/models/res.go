package models

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse wraps collection endpoints that report a total.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

func NewErrorResponse(err error) ErrorResponse {
	if err == nil {
		return ErrorResponse{Error: "unknown error"}
	}
	return ErrorResponse{Error: err.Error()}
}

func NewListResponse(data interface{}, total int) ListResponse {
	return ListResponse{Data: data, Total: total}
}
