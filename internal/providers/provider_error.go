package providers

import "fmt"

const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeRejected          = "REJECTED"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
)

// ProviderError is returned for any failed call to an external provider.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Temporary reports whether repeating the call could succeed. Rejections
// and bad credentials will fail the same way every time.
func (e *ProviderError) Temporary() bool {
	switch e.Code {
	case ErrCodeInvalidAPIKey, ErrCodeInvalidDataFormat, ErrCodeRejected:
		return false
	default:
		return true
	}
}
