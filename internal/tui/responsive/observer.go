// Package responsive evaluates layout predicates against the terminal size
// and notifies subscribers when a predicate starts or stops matching.
package responsive

import (
	"cmp"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/hitch/pkg/kv"
)

type subscription struct {
	query Query
	fn    func(bool)
	last  bool
}

// Observer tracks the current size and the registered subscriptions. It is
// safe for concurrent use; callbacks run on the goroutine that called Resize
// or Refresh, outside the observer's lock.
type Observer struct {
	env Environment

	mu    sync.Mutex
	size  Size
	known bool

	subs   *kv.Store[int64, *subscription]
	nextID atomic.Int64
}

// NewObserver creates an observer and takes an initial measurement from env.
// A nil env is treated as Headless.
func NewObserver(env Environment) *Observer {
	if env == nil {
		env = Headless{}
	}
	o := &Observer{
		env:  env,
		subs: kv.New[int64, *subscription](),
	}
	o.size, o.known = env.Size()
	return o
}

// Size returns the last known size.
func (o *Observer) Size() (Size, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.size, o.known
}

// Matches reports whether predicate holds for the current size. It is false
// when the size is unknown or the predicate does not parse.
func (o *Observer) Matches(predicate string) bool {
	q, err := Parse(predicate)
	if err != nil {
		log.Debug().Err(err).Msg("responsive: ignoring invalid predicate")
		return false
	}

	size, known := o.Size()
	return known && q.Match(size)
}

// Observe calls fn with the new value each time predicate flips. stop
// removes the subscription and may be called more than once.
func (o *Observer) Observe(predicate string, fn func(matches bool)) (stop func(), err error) {
	q, err := Parse(predicate)
	if err != nil {
		return nil, err
	}

	id := o.nextID.Add(1)

	o.mu.Lock()
	o.subs.Set(id, &subscription{query: q, fn: fn, last: o.known && q.Match(o.size)})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { o.subs.Delete(id) })
	}, nil
}

// Resize records a new size and notifies subscribers whose predicate
// changed. Non-positive dimensions mark the size unknown.
func (o *Observer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		o.set(Size{}, false)
		return
	}
	o.set(Size{Width: width, Height: height}, true)
}

// Refresh re-measures the environment.
func (o *Observer) Refresh() {
	o.set(o.env.Size())
}

func (o *Observer) set(size Size, known bool) {
	type change struct {
		fn  func(bool)
		val bool
	}

	o.mu.Lock()
	o.size, o.known = size, known

	var changes []change
	for _, id := range o.subs.SortedKeys(cmp.Compare[int64]) {
		sub, ok := o.subs.Get(id)
		if !ok {
			continue
		}
		v := known && sub.query.Match(size)
		if v != sub.last {
			sub.last = v
			changes = append(changes, change{fn: sub.fn, val: v})
		}
	}
	o.mu.Unlock()

	for _, c := range changes {
		c.fn(c.val)
	}
}
