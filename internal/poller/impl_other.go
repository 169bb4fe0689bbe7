//go:build !linux

package poller

func newPoller(release func()) (Poller, error) { return nil, ErrUnsupported }
