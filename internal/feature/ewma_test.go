package feature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEWMARejectsInvalidAlpha(t *testing.T) {
	_, err := NewEWMA(0)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewEWMA(1.5)
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewEWMA(-0.1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEWMASeedsOnFirstSample(t *testing.T) {
	e, err := NewEWMA(0.1)
	require.NoError(t, err)
	require.Equal(t, float64(100), e.Update(100))
}

func TestEWMAAlphaOneReturnsLastSample(t *testing.T) {
	e, err := NewEWMA(1)
	require.NoError(t, err)
	e.Update(10)
	require.Equal(t, float64(20), e.Update(20))
	require.Equal(t, float64(30), e.Update(30))
}

func TestEWMASmallAlphaConvergesSlowly(t *testing.T) {
	e, err := NewEWMA(0.1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		e.Update(100)
	}
	require.InDelta(t, 100, e.Value(), 1e-9)

	v := e.Update(99)
	// alpha*99 + (1-alpha)*100 = 99.9
	require.InDelta(t, 99.9, v, 1e-9)
}
