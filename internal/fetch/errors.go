package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failure carries no message of its own,
// and for every non-ok HTTP status.
const FallbackMessage = "热点获取失败"

// ErrFetchFailed matches every *StatusError via errors.Is.
var ErrFetchFailed = errors.New(FallbackMessage)

// StatusError reports a response outside the 2xx range.
// Its message is the fixed fallback; the code is kept for logs.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return FallbackMessage
}

// Is lets errors.Is(err, ErrFetchFailed) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Detail includes the status code, for logs only.
func (e *StatusError) Detail() string {
	return fmt.Sprintf("%s (HTTP %d)", FallbackMessage, e.Code)
}

// Message collapses any fetch error into the single user-facing string.
// Returns "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}
