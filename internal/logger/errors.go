package logger

import (
	"errors"
	"fmt"
	"os"
)

// ErrServiceIsEmpty is returned if Log.Service was not defined.
var ErrServiceIsEmpty = errors.New("config Log.Service can not be empty")

// ErrorHandler reports events zerolog failed to write.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "zerolog: could not write event: %v\n", err)
}
