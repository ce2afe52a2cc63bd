package serverutils

// ApiSuccess is the envelope for message-only acknowledgements. Endpoints with
// a documented payload shape return that shape directly instead.
type ApiSuccess[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// ApiError always carries the failure under the "error" key, which is what
// clients look for on non-2xx responses.
type ApiError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func SuccessResponse[T any](message string, data T) ApiSuccess[T] {
	return ApiSuccess[T]{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ApiError {
	return ApiError{
		Code:  code,
		Error: message,
	}
}
