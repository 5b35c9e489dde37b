package telemetry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	short := "<html></html>"
	require.Equal(t, short, truncate(short))

	long := strings.Repeat("a", maxBodyAttribute+10)
	out := truncate(long)
	require.True(t, strings.HasSuffix(out, "...(truncated)"))
	require.Len(t, out, maxBodyAttribute+len("...(truncated)"))
}

func TestShutdownWithoutProviders(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(t.Context()))
}
