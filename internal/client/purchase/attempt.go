package purchase

import (
	"context"
	"sync"
)

// Attempt is one purchase, resolved exactly once with the sheet outcome or a request failure.
type Attempt struct {
	ID     string
	ItemID string

	mu         sync.Mutex
	invoiceURL string
	payload    string
	status     Status
	err        error
	done       chan struct{}
}

func newAttempt(id, itemID string) *Attempt {
	return &Attempt{
		ID:     id,
		ItemID: itemID,
		status: StatusRequesting,
		done:   make(chan struct{}),
	}
}

func (a *Attempt) setInvoice(url, payload string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.invoiceURL = url
	a.payload = payload
	a.status = StatusAwaitingPayment
}

// resolve reports false if the attempt was already resolved.
func (a *Attempt) resolve(status Status, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case <-a.done:
		return false
	default:
	}
	a.status = status
	a.err = err
	close(a.done)
	return true
}

// Done is closed once the attempt has an outcome.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves or ctx ends.
func (a *Attempt) Wait(ctx context.Context) (Status, error) {
	select {
	case <-a.done:
		return a.Result()
	case <-ctx.Done():
		return a.Status(), ctx.Err()
	}
}

// Result is the final status and error; only meaningful after Done.
func (a *Attempt) Result() (Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.err
}

func (a *Attempt) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Attempt) InvoiceURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.invoiceURL
}

func (a *Attempt) Payload() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.payload
}
