package collector

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWithBackoff retries fn with exponential backoff while SQLite reports
// locked/busy. Other errors stop the retry loop immediately.
func RetryWithBackoff(fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			return err
		}
		return backoff.Permanent(err)
	}, bo)
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
