package cmd

import (
	"errors"
	"fmt"
)

// exitError is returned to request a specific process exit code without
// printing an error. lookup uses 1 for "no results".
type exitError struct{ code int }

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}
