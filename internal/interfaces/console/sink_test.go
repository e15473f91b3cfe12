package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkWritesLiveAndSnapshot(t *testing.T) {
	var buf bytes.Buffer
	s := NewSinkWriter(&buf)

	require.NoError(t, s.WriteLive("\rlive"))
	require.NoError(t, s.WriteSnapshot(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), "snap"))
	require.NoError(t, s.NewLine())

	assert.Equal(t, "\rlive\n2024-05-01 12:30:00 snap\n\n\n", buf.String())
}
