package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/pkg/theme"
)

// ErrNoFetcher is returned by FetchSample when no sample source is set.
var ErrNoFetcher = errors.New("session: no sample fetcher configured")

// SampleFetcher retrieves sample schema text. *sample.Fetcher satisfies it.
type SampleFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Listener receives every new snapshot after a dispatch.
type Listener func(State)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFetcher sets the sample source used by FetchSample.
func WithFetcher(fetcher SampleFetcher) Option {
	return func(c *Coordinator) {
		c.fetcher = fetcher
	}
}

// WithClock overrides the time source used for receipts.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithLogger sets the logger used for swallowed sample failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTheme sets the initial editor theme.
func WithTheme(preset theme.Preset) Option {
	return func(c *Coordinator) {
		if preset.Valid() {
			c.state.Theme = preset
		}
	}
}

// WithStrictKinds rejects unsupported field types when parsing editor text.
func WithStrictKinds() Option {
	return func(c *Coordinator) {
		c.state.StrictKinds = true
	}
}

// WithInitialText parses text as the first editor contents once every other
// option has been applied.
func WithInitialText(text string) Option {
	return func(c *Coordinator) {
		c.initial = text
	}
}

// Coordinator serialises events against a single State.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	initial   string

	fetcher SampleFetcher
	now     func() time.Time
	newID   func() uuid.UUID
	logger  *slog.Logger
}

// NewCoordinator returns a coordinator at the initial state.
func NewCoordinator(options ...Option) *Coordinator {
	c := &Coordinator{
		state:     Initial(),
		listeners: make(map[int]Listener),
		now:       time.Now,
		newID:     uuid.New,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.initial != "" {
		c.state = Reduce(c.state, TextChanged{Text: c.initial})
	}
	return c
}

// Snapshot returns the current state. The caller must not mutate it.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies e and notifies listeners with the resulting snapshot.
func (c *Coordinator) Dispatch(e Event) State {
	if submit, ok := e.(SubmitConfirmed); ok {
		if submit.ID == uuid.Nil {
			submit.ID = c.newID()
		}
		if submit.At.IsZero() {
			submit.At = c.now().UTC()
		}
		e = submit
	}

	c.mu.Lock()
	c.state = Reduce(c.state, e)
	state := c.state
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return state
}

// Subscribe registers fn for future snapshots and returns a function that
// removes it.
func (c *Coordinator) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// FetchSample fetches sample text and stages it. Fetch failures are logged
// and reported but never change the state.
func (c *Coordinator) FetchSample(ctx context.Context) error {
	if c.fetcher == nil {
		return ErrNoFetcher
	}
	text, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "sample fetch failed", slog.Any("error", err))
		return err
	}
	c.Dispatch(SampleStaged{Text: text})
	c.logger.DebugContext(ctx, "sample staged", slog.Int("bytes", len(text)))
	return nil
}

// StartSampleFetch runs FetchSample in the background. The returned channel
// closes when the attempt finishes.
func (c *Coordinator) StartSampleFetch(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.FetchSample(ctx)
	}()
	return done
}
