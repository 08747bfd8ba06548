package apierrors

import (
	"errors"
	"time"
)

// IsRateLimit reports whether err is a throttling signal, locally or from the
// upstream. The retry layer keys off this and nothing else.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// RetryAfter extracts the throttle wait hint from err, or 0 if err is not a
// rate limit error or carries no hint.
func RetryAfter(err error) (d time.Duration) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		d = rle.RetryAfter
	}
	return d
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
