package responsive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_MatchesThenFlipsOnResize(t *testing.T) {
	o := NewObserver(Fixed{Width: 130, Height: 40})
	assert.True(t, o.Matches("(min-width: 120)"))

	var got []bool
	stop, err := o.Observe("(min-width: 120)", func(v bool) { got = append(got, v) })
	require.NoError(t, err)
	defer stop()

	o.Resize(100, 40)
	assert.False(t, o.Matches("(min-width: 120)"))
	assert.Equal(t, []bool{false}, got)
}

func TestObserver_NotifiesOnlyOnFlip(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})

	var got []bool
	_, err := o.Observe("(max-width: 70)", func(v bool) { got = append(got, v) })
	require.NoError(t, err)

	o.Resize(90, 24)
	o.Resize(60, 24)
	o.Resize(65, 30)
	o.Resize(100, 30)

	assert.Equal(t, []bool{true, false}, got)
}

func TestObserver_Headless(t *testing.T) {
	o := NewObserver(Headless{})
	assert.False(t, o.Matches("(min-width: 0)"))

	_, known := o.Size()
	assert.False(t, known)

	var got []bool
	_, err := o.Observe("(min-width: 0)", func(v bool) { got = append(got, v) })
	require.NoError(t, err)

	o.Resize(10, 10)
	o.Resize(0, 0)
	assert.Equal(t, []bool{true, false}, got)
}

func TestObserver_NilEnvironment(t *testing.T) {
	o := NewObserver(nil)
	assert.False(t, o.Matches("(min-width: 1)"))
}

func TestObserver_InvalidPredicate(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})
	assert.False(t, o.Matches("(width > 10)"))

	_, err := o.Observe("(width > 10)", func(bool) {})
	assert.Error(t, err)
}

func TestObserver_StopIsIdempotent(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})

	calls := 0
	stop, err := o.Observe("(min-width: 100)", func(bool) { calls++ })
	require.NoError(t, err)

	stop()
	stop()
	o.Resize(120, 24)
	assert.Zero(t, calls)
}

func TestObserver_CallbackOrderFollowsSubscription(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		_, err := o.Observe("(min-width: 100)", func(bool) { order = append(order, name) })
		require.NoError(t, err)
	}

	o.Resize(120, 24)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestObserver_CallbackMayReenter(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})

	var inner bool
	_, err := o.Observe("(min-width: 100)", func(bool) {
		inner = o.Matches("(min-width: 100)")
	})
	require.NoError(t, err)

	o.Resize(120, 24)
	assert.True(t, inner)
}

type swapEnv struct {
	mu   sync.Mutex
	size Size
}

func (e *swapEnv) Size() (Size, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size, true
}

func TestObserver_Refresh(t *testing.T) {
	env := &swapEnv{size: Size{80, 24}}
	o := NewObserver(env)

	var got []bool
	_, err := o.Observe("(orientation: portrait)", func(v bool) { got = append(got, v) })
	require.NoError(t, err)

	env.mu.Lock()
	env.size = Size{40, 30}
	env.mu.Unlock()
	o.Refresh()

	assert.Equal(t, []bool{true}, got)
}

func TestObserver_ConcurrentResize(t *testing.T) {
	o := NewObserver(Fixed{Width: 80, Height: 24})
	_, err := o.Observe("(min-width: 100)", func(bool) {})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o.Resize(60+i*2, 24)
			_ = o.Matches("(min-width: 100)")
		}(i)
	}
	wg.Wait()
}
