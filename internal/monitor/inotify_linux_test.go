//go:build linux

package monitor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hara602/inowatch/internal/model"
	"github.com/Hara602/inowatch/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInotifyRoundTrip(t *testing.T) {
	n, err := monitor.New()
	require.NoError(t, err)
	defer n.Close()

	dir := t.TempDir()
	wd, err := n.AddWatch(dir, model.DefaultWatchMask)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.txt"), []byte("hi"), 0o644))

	var got []model.RawEvent
	require.NoError(t, monitor.NewReader(n, 0, 0).Drain(func(ev model.RawEvent) {
		got = append(got, ev)
	}))
	require.NotEmpty(t, got)
	assert.Equal(t, wd, got[0].Handle)
	assert.True(t, got[0].Mask.Has(model.InCreate))
	assert.Equal(t, "foo.txt", got[0].Name)

	require.NoError(t, n.RemoveWatch(wd))
}

func TestInotifyMissingPath(t *testing.T) {
	n, err := monitor.New()
	require.NoError(t, err)
	defer n.Close()

	_, err = n.AddWatch(filepath.Join(t.TempDir(), "nope"), model.DefaultWatchMask)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
