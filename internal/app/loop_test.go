package app_test

import (
	"syscall"
	"testing"

	"github.com/Hara602/inowatch/internal/app"
	"github.com/Hara602/inowatch/internal/model"
	"github.com/Hara602/inowatch/internal/monitor/monitortest"
	"github.com/Hara602/inowatch/internal/poller/pollertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const inotifyFd = 9

type harness struct {
	loop   *app.Loop
	poller *pollertest.Poller
	kernel *monitortest.Notifier
	logs   *observer.ObservedLogs
}

func newHarness(t *testing.T, paths []string, missing ...string) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	p := pollertest.New()
	kernel := monitortest.New(inotifyFd)
	for _, m := range missing {
		kernel.Missing[m] = true
	}
	l, err := app.NewWithDeps(paths, app.Deps{Poller: p, Notifier: kernel, Log: zap.New(core)})
	require.NoError(t, err)
	return &harness{loop: l, poller: p, kernel: kernel, logs: logs}
}

func (h *harness) activity() []observer.LoggedEntry {
	return h.logs.FilterMessage("📂 File Activity").All()
}

func TestInitialization(t *testing.T) {
	h := newHarness(t, []string{"/tmp/a", "/missing", "/tmp/b"}, "/missing")

	assert.True(t, h.poller.Registered(inotifyFd))

	reg := h.loop.Registry()
	require.Equal(t, 3, reg.Len())
	entries := reg.Entries()
	assert.True(t, entries[0].Valid())
	assert.False(t, entries[1].Valid())
	assert.True(t, entries[2].Valid())
	assert.NotEqual(t, entries[0].Handle, entries[2].Handle)

	ready := h.logs.FilterMessage("🛡️ inotify ready").All()
	require.Len(t, ready, 1)
	assert.EqualValues(t, inotifyFd, ready[0].ContextMap()["fd"])

	started := h.logs.FilterMessage("👀 Monitoring started").All()
	require.Len(t, started, 2)
	assert.Equal(t, "/tmp/a", started[0].ContextMap()["path"])
	assert.Equal(t, "/tmp/b", started[1].ContextMap()["path"])

	failed := h.logs.FilterMessage("Failed to watch path").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "/missing", failed[0].ContextMap()["path"])
}

func TestCreateThenModify(t *testing.T) {
	h := newHarness(t, []string{"/tmp/a"})
	root, _ := h.kernel.HandleFor("/tmp/a")

	h.kernel.Queue(model.RawEvent{Handle: root, Mask: model.InCreate, Name: "x"})
	h.poller.Signal(inotifyFd)
	require.NoError(t, h.loop.Step())

	child, ok := h.kernel.HandleFor("/tmp/a/x")
	require.True(t, ok)
	assert.NotEqual(t, root, child)

	h.kernel.Queue(model.RawEvent{Handle: root, Mask: model.InModify, Name: "x"})
	h.kernel.Queue(model.RawEvent{Handle: child, Mask: model.InModify})
	h.poller.Signal(inotifyFd)
	require.NoError(t, h.loop.Step())

	activity := h.activity()
	require.Len(t, activity, 3)
	assert.Equal(t, "/tmp/a/x", activity[0].ContextMap()["path"])
	assert.Contains(t, activity[0].ContextMap()["event"], "CREATE")
	for _, e := range activity[1:] {
		assert.Equal(t, "/tmp/a/x", e.ContextMap()["path"])
		assert.Contains(t, e.ContextMap()["event"], "MODIFY")
	}
}

func TestRunStopsOnlyOnError(t *testing.T) {
	h := newHarness(t, []string{"/tmp/a"})
	root, _ := h.kernel.HandleFor("/tmp/a")

	h.kernel.Queue(
		model.RawEvent{Handle: root, Mask: model.InMovedFrom, Cookie: 42, Name: "old"},
		model.RawEvent{Handle: root, Mask: model.InMovedTo, Cookie: 42, Name: "new"},
	)
	h.kernel.Queue(model.RawEvent{Handle: root + 100, Mask: model.InCreate, Name: "stale"})
	h.poller.Signal(inotifyFd, inotifyFd)

	err := h.loop.Run()
	assert.ErrorIs(t, err, pollertest.ErrIdle)

	activity := h.activity()
	require.Len(t, activity, 2)
	assert.Equal(t, "MOVED_FROM cookie=42", activity[0].ContextMap()["event"])
	assert.Equal(t, "MOVED_TO cookie=42", activity[1].ContextMap()["event"])
}

func TestFatalReadError(t *testing.T) {
	h := newHarness(t, []string{"/tmp/a"})
	h.kernel.QueueError(syscall.EIO)
	h.poller.Signal(inotifyFd)

	err := h.loop.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EIO)
}

func TestNotifierFdRegistrationFailure(t *testing.T) {
	p := pollertest.New()
	require.NoError(t, p.Register(inotifyFd))

	_, err := app.NewWithDeps([]string{"/tmp/a"}, app.Deps{Poller: p, Notifier: monitortest.New(inotifyFd)})
	assert.Error(t, err)
}
