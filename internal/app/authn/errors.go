package authn

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

func invalidCredentials() *Error {
	return &Error{
		Status:  401,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password",
	}
}

func userAlreadyExists() *Error {
	return &Error{
		Status:  409,
		Code:    "USER_ALREADY_EXISTS",
		Message: "A user with this email already exists",
	}
}
