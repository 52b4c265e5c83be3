package clip

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyToWriter(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, true)
	require.NoError(t, c.Copy("- [x] [Aid from the Cowl](aer/82)"))
	require.Equal(t, "- [x] [Aid from the Cowl](aer/82)\n", buf.String())
	require.True(t, c.Stdout())
}

func TestCopierModes(t *testing.T) {
	var buf bytes.Buffer
	require.False(t, New(&buf, false).Stdout())
}
