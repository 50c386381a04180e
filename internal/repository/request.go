package repository

import "context"

// Request is the handle of one in-flight remote call.
type Request struct {
	id       string
	sequence uint64
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	// set under RecipeRepository.mu when Cancel retires this search
	retired bool
}

func newRequest(parent context.Context, id string, sequence uint64) *Request {
	ctx, cancel := context.WithCancel(parent)
	return &Request{
		id:       id,
		sequence: sequence,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

func (r *Request) ID() string {
	return r.id
}

// Done is closed once every listener notification for the request has been
// delivered, or once its completion was discarded.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Cancel aborts the remote call. It does not retire a search from the
// repository; use RecipeRepository.Cancel for that.
func (r *Request) Cancel() {
	r.cancel()
}

// Wait blocks until the request is done or ctx ends.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
