// Package robot provides cross-platform keyboard synthesis and window control
// backed by robotgo. It requires cgo; without cgo the package compiles empty
// and platform.NewProvider reports platform.ErrUnsupported.
package robot
