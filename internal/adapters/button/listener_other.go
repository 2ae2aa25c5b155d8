//go:build !linux

package button

import "context"

// Run returns ErrUnsupported; key input needs evdev.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Warn("key input is not supported on this platform")
	return ErrUnsupported
}
