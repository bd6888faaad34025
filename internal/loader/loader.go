package loader

import (
	"sync"
	"time"
)

// Loader batches the individual key lookups issued while one request is
// being resolved into a single bulk fetch, and memoizes the results for
// the lifetime of the instance. Instances are meant to live for exactly
// one request; see Loaders in this package.
type Loader[K comparable, V any] struct {
	// fetch returns one value per requested key, positionally aligned.
	// A key with no backing row maps to the zero value, not an error.
	fetch func(keys []K) ([]V, []error)

	// how long to wait before sending a batch
	wait time.Duration

	// this method will limit the maximum number of keys to send in one batch, 0 = no limit
	maxBatch int

	cache map[K]V

	// the current batch. keys will continue to be collected until the
	// batching window closes or maxBatch is reached.
	batch *batch[K, V]

	mu sync.Mutex
}

// Config captures everything a Loader needs.
type Config[K comparable, V any] struct {
	Fetch    func(keys []K) ([]V, []error)
	Wait     time.Duration
	MaxBatch int
}

// New creates a Loader from the given config, applying a short default
// batching window when none is set.
func New[K comparable, V any](cfg Config[K, V]) *Loader[K, V] {
	l := &Loader[K, V]{
		fetch:    cfg.Fetch,
		wait:     cfg.Wait,
		maxBatch: cfg.MaxBatch,
	}
	if l.wait == 0 {
		l.wait = 2 * time.Millisecond
	}
	return l
}

type batch[K comparable, V any] struct {
	keys    []K
	data    []V
	errors  []error
	closing bool
	done    chan struct{}
}

// Load fetches the value for key, blocking until the batch it joined
// has resolved.
func (l *Loader[K, V]) Load(key K) (V, error) {
	return l.LoadThunk(key)()
}

// LoadThunk enqueues key into the current batch and returns a function
// that blocks until the batch resolves. Issuing all thunks before
// resolving any of them is what makes a whole page of lookups collapse
// into one query.
func (l *Loader[K, V]) LoadThunk(key K) func() (V, error) {
	l.mu.Lock()
	if it, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return func() (V, error) {
			return it, nil
		}
	}
	if l.batch == nil {
		l.batch = &batch[K, V]{done: make(chan struct{})}
	}
	b := l.batch
	pos := b.keyIndex(l, key)
	l.mu.Unlock()

	return func() (V, error) {
		<-b.done

		var data V
		if pos < len(b.data) {
			data = b.data[pos]
		}

		var err error
		// a batch may return a single error for the whole fetch, or one
		// error per key
		if len(b.errors) == 1 {
			err = b.errors[0]
		} else if b.errors != nil {
			err = b.errors[pos]
		}

		if err == nil {
			l.mu.Lock()
			l.unsafeSet(key, data)
			l.mu.Unlock()
		}

		return data, err
	}
}

// LoadAll fetches many keys at once. Duplicated keys still produce one
// result slot each, aligned with the input.
func (l *Loader[K, V]) LoadAll(keys []K) ([]V, []error) {
	thunks := make([]func() (V, error), len(keys))
	for i, key := range keys {
		thunks[i] = l.LoadThunk(key)
	}

	values := make([]V, len(keys))
	errors := make([]error, len(keys))
	for i, thunk := range thunks {
		values[i], errors[i] = thunk()
	}
	return values, errors
}

// Prime the cache with the provided key/value. Returns false if the key
// already existed; existing values are not overwritten.
func (l *Loader[K, V]) Prime(key K, value V) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, found := l.cache[key]; found {
		return false
	}
	l.unsafeSet(key, value)
	return true
}

// Clear drops the cached value for key, forcing a refetch on next load.
func (l *Loader[K, V]) Clear(key K) {
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

func (l *Loader[K, V]) unsafeSet(key K, value V) {
	if l.cache == nil {
		l.cache = map[K]V{}
	}
	l.cache[key] = value
}

// keyIndex returns the location of the key in the batch, deduplicating
// keys within one batch. Caller must hold l.mu.
func (b *batch[K, V]) keyIndex(l *Loader[K, V], key K) int {
	for i, existing := range b.keys {
		if key == existing {
			return i
		}
	}

	pos := len(b.keys)
	b.keys = append(b.keys, key)
	if pos == 0 {
		go b.startTimer(l)
	}

	if l.maxBatch != 0 && pos >= l.maxBatch-1 {
		if !b.closing {
			b.closing = true
			l.batch = nil
			go b.end(l)
		}
	}

	return pos
}

func (b *batch[K, V]) startTimer(l *Loader[K, V]) {
	time.Sleep(l.wait)
	l.mu.Lock()

	// batch already closed by reaching maxBatch
	if b.closing {
		l.mu.Unlock()
		return
	}

	l.batch = nil
	l.mu.Unlock()

	b.end(l)
}

func (b *batch[K, V]) end(l *Loader[K, V]) {
	b.data, b.errors = l.fetch(b.keys)
	close(b.done)
}
