package activity

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func userNotFound() *Error {
	return &Error{
		Status:  404,
		Code:    "USER_NOT_FOUND",
		Message: "User not found",
	}
}
