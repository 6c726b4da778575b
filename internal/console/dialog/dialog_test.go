package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCancel(t *testing.T) {
	resets := 0
	d := New(func() { resets++ })

	assert.False(t, d.IsOpen())
	assert.False(t, d.Cancel())

	d.Open()
	assert.True(t, d.IsOpen())
	assert.True(t, d.CanCancel())
	assert.True(t, d.Cancel())
	assert.False(t, d.IsOpen())
	assert.Equal(t, 1, resets)

	d.Open()
	assert.True(t, d.Dismiss())
	assert.Equal(t, Closed, d.State())
}

func TestSubmitBlocksCancel(t *testing.T) {
	d := New(nil)
	assert.ErrorIs(t, d.BeginSubmit(), ErrClosed)

	d.Open()
	require.NoError(t, d.BeginSubmit())
	assert.ErrorIs(t, d.BeginSubmit(), ErrSubmitting)
	assert.True(t, d.Submitting())
	assert.False(t, d.CanCancel())
	assert.False(t, d.Cancel())
	assert.False(t, d.Dismiss())
	assert.True(t, d.IsOpen())
}

func TestFailedSubmitStaysOpen(t *testing.T) {
	resets := 0
	d := New(func() { resets++ })
	d.Open()

	require.NoError(t, d.BeginSubmit())
	d.EndSubmit(false)
	assert.True(t, d.IsOpen())
	assert.True(t, d.CanCancel())
	assert.Zero(t, resets)
}

func TestSuccessfulSubmitCloses(t *testing.T) {
	resets := 0
	d := New(func() { resets++ })
	d.Open()

	require.NoError(t, d.BeginSubmit())
	d.EndSubmit(true)
	assert.False(t, d.IsOpen())
	assert.False(t, d.Submitting())
	assert.Equal(t, 1, resets)
}

func TestConcurrentSubmitsAdmitOne(t *testing.T) {
	d := New(nil)
	d.Open()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.BeginSubmit() == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, admitted)
}
