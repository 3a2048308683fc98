package csvsniffer

import "fmt"

// ErrSniffingFailed marks a violated precondition or an inconclusive
// inference result. Use errors.Is(err, ErrSniffingFailed) to test for it;
// the wrapped message describes exactly what failed.
var ErrSniffingFailed = fmt.Errorf("sniffing failed")

// sniffingFailed wraps a message as an ErrSniffingFailed error.
func sniffingFailed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSniffingFailed, fmt.Sprintf(format, args...))
}
