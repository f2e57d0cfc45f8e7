package render

import (
	"context"
	"errors"
	"fmt"
)

// Renderer turns a URL into rendered HTML.
//
// Render returns the page HTML after the document reached an interactive
// state, or an error when navigation failed or timed out. A failed render
// is local to one URL; callers treat it as "page contributed no links".
type Renderer interface {
	// Render fetches and renders the page at pageURL.
	Render(ctx context.Context, pageURL string) (string, error)

	// Close releases the session's resources.
	Close() error
}

// ErrPoolClosed is returned by Acquire after the pool has been closed.
var ErrPoolClosed = errors.New("render: session pool is closed")

// Pool hands out exclusive render sessions to crawl workers.
//
// A session holds navigation state (current page, pending script
// execution), so sharing one session across concurrently executing
// workers would race. The pool holds one session per worker slot; a
// worker checks a session out for the duration of one page render and
// returns it afterwards.
type Pool struct {
	sessions chan Renderer
	all      []Renderer
}

// NewPool creates a Pool of size sessions produced by factory.
// If any session fails to initialize, the already-created sessions are
// closed and the error is returned.
func NewPool(size int, factory func() (Renderer, error)) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render: pool size must be positive, got %d", size)
	}

	p := &Pool{
		sessions: make(chan Renderer, size),
		all:      make([]Renderer, 0, size),
	}

	for range size {
		sess, err := factory()
		if err != nil {
			_ = p.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("render: failed to create session: %w", err)
		}
		p.all = append(p.all, sess)
		p.sessions <- sess
	}

	return p, nil
}

// Acquire checks a session out of the pool, blocking until one is free
// or the context is cancelled.
func (p *Pool) Acquire(ctx context.Context) (Renderer, error) {
	select {
	case sess, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return sess, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a session to the pool.
// Must be called exactly once per successful Acquire.
func (p *Pool) Release(sess Renderer) {
	p.sessions <- sess
}

// Size returns the number of sessions the pool was created with.
func (p *Pool) Size() int {
	return len(p.all)
}

// Close closes every session in the pool. The pool must not be used
// afterwards; in-flight Acquire calls receive ErrPoolClosed.
func (p *Pool) Close() error {
	close(p.sessions)

	var firstErr error
	for _, sess := range p.all {
		if err := sess.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
