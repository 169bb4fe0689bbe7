package monitor_test

import (
	"testing"

	"github.com/Hara602/inowatch/internal/model"
	"github.com/Hara602/inowatch/internal/monitor"
	"github.com/Hara602/inowatch/internal/monitor/monitortest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConsecutiveRecords(t *testing.T) {
	want := []model.RawEvent{
		{Handle: 1, Mask: model.InCreate, Name: "foo.txt"},
		{Handle: 1, Mask: model.InMoveSelf},
		{Handle: 2, Mask: model.InMovedFrom, Cookie: 42, Name: "a-rather-long-name-with-padding"},
		{Handle: 3, Mask: model.InMovedTo, Cookie: 42, Name: "abc"},
	}
	got, err := monitor.Decode(monitortest.EncodeAll(want...))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeOverflowHandle(t *testing.T) {
	got, err := monitor.Decode(monitortest.Encode(model.RawEvent{Handle: -1, Mask: model.InQOverflow}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, -1, got[0].Handle)
}

func TestDecodeTruncated(t *testing.T) {
	full := monitortest.EncodeAll(
		model.RawEvent{Handle: 1, Mask: model.InCreate, Name: "ok"},
		model.RawEvent{Handle: 1, Mask: model.InDelete, Name: "gone"},
	)
	first := len(monitortest.Encode(model.RawEvent{Handle: 1, Mask: model.InCreate, Name: "ok"}))

	testCases := []struct {
		desc string
		buf  []byte
	}{
		{"partial header", full[:first+10]},
		{"partial name", full[:len(full)-2]},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := monitor.Decode(tc.buf)
			assert.ErrorIs(t, err, monitor.ErrShortRecord)
			require.Len(t, got, 1)
			assert.Equal(t, "ok", got[0].Name)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	got, err := monitor.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
