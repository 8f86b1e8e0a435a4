package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Inputter      Inputter
	WindowManager WindowManager
}

// ErrUnsupported is returned when no input backend was compiled in.
var ErrUnsupported = fmt.Errorf("input synthesis is not supported on %s/%s (build with cgo enabled)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/robot/init.go for the robotgo registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
