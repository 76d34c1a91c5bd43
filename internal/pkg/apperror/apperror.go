package apperror

// AppError is a custom error type that includes an HTTP status code and an optional wrapped error.
type AppError struct {
	Code      int    // HTTP status code (e.g. 400, 409, 503)
	Message   string // User-facing error message
	Retryable bool   // True for transient infrastructure failures worth a bounded retry
	Err       error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewRetryable creates an AppError marked as retryable.
// Used for store timeouts and outages where repeating the operation is safe.
func NewRetryable(code int, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// Wrap creates a new AppError wrapping an existing error.
// errors.Is against the wrapped error keeps working through Unwrap.
func Wrap(err error, code int, message string) *AppError {
	retryable := false
	if inner, ok := err.(*AppError); ok {
		retryable = inner.Retryable
	}
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Err:       err,
	}
}

// IsRetryable reports whether err (or any error it wraps) is a retryable AppError.
func IsRetryable(err error) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Retryable {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
