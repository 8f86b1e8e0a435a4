//go:build cgo

package robot

import "github.com/mj1618/terminator-agent/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Inputter:      NewInputter(),
			WindowManager: NewWindowManager(),
		}, nil
	}
}
