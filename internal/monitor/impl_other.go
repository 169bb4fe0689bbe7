//go:build !linux

package monitor

func newNotifier() (Notifier, error) { return nil, ErrUnsupported }
