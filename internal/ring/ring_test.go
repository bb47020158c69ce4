package ring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	_, err := New[int](3)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New[int](0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	r, err := New[int](4)
	require.NoError(t, err)
	require.Equal(t, 3, r.Cap())
}

// TestRingFIFO implements scenario S2 from spec.md §8.
func TestRingFIFO(t *testing.T) {
	r, err := New[int](4)
	require.NoError(t, err)

	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	require.True(t, r.Push(3))
	require.False(t, r.Push(4)) // one slot reserved

	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = r.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	v, ok = r.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = r.Pop()
	require.False(t, ok)

	require.True(t, r.Push(4))
}

func TestRingCapacityTwoHoldsOne(t *testing.T) {
	r, err := New[int](2)
	require.NoError(t, err)

	require.True(t, r.Push(1))
	require.False(t, r.Push(2))

	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestRingFrontAdvance(t *testing.T) {
	r, err := New[int](4)
	require.NoError(t, err)
	require.True(t, r.Push(7))

	p := r.Front()
	require.NotNil(t, p)
	require.Equal(t, 7, *p)
	r.Advance()

	require.Nil(t, r.Front())
}

// TestRingSPSCOrdering pushes from one goroutine and pops from another,
// verifying at-most-(C-1) buffered and in-order delivery under real
// concurrency.
func TestRingSPSCOrdering(t *testing.T) {
	const n = 100_000
	r, err := New[int](1024)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.Push(i) {
			}
		}
	}()

	received := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for len(received) < n {
			if v, ok := r.Pop(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()
	for i := 0; i < n; i++ {
		require.Equal(t, i, received[i])
	}
}
