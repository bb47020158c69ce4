package killswitch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKillSwitchDefaultDisarmed(t *testing.T) {
	s := New()
	require.False(t, s.Armed())
}

func TestKillSwitchTriggerReset(t *testing.T) {
	s := New()
	s.Trigger()
	require.True(t, s.Armed())
	s.Reset()
	require.False(t, s.Armed())
}
