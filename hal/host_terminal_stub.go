//go:build !tinygo && windows

package hal

import (
	"context"
	"errors"
)

// TerminalConfig controls the text terminal runner.
type TerminalConfig struct {
	Device   string
	Hz       int
	LogLines int
}

func RunTerminal(_ context.Context, _ func(HAL) func() error, _ TerminalConfig) error {
	return errors.New("terminal mode is not supported on windows")
}
