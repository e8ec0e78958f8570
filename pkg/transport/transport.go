// Package transport provides a fake http.RoundTripper that hands every
// outgoing request to a hook instead of the network.
//
// A Fake is installed on an *http.Client (or on http.DefaultTransport) and
// restored afterwards:
//
//	fake := transport.Install(client)
//	defer fake.Restore()
//
//	fake.OnCreate(func(req *transport.PendingRequest) {
//	    go req.Respond(200, nil, []byte("hello"))
//	})
//
// RoundTrip blocks until the hook side calls Respond, the request context is
// done, or the fake is restored.
package transport

import (
	"errors"
	"net/http"
	"sync"
)

// Errors returned from RoundTrip and Respond.
var (
	ErrNoHook           = errors.New("transport: no OnCreate hook registered")
	ErrRestored         = errors.New("transport: fake transport was restored before a response was delivered")
	ErrAlreadyResponded = errors.New("transport: request already has a response")
)

// defaultMu serialises swaps of http.DefaultTransport.
var defaultMu sync.Mutex

// Fake is an installable fake transport.
type Fake struct {
	mu       sync.Mutex
	onCreate func(*PendingRequest)
	restored chan struct{}
	restore  func()
	once     sync.Once
	created  int
}

// New returns a Fake that is not installed anywhere. It can be used directly
// as a client's Transport.
func New() *Fake {
	return &Fake{restored: make(chan struct{}), restore: func() {}}
}

// Install replaces client.Transport with a new Fake. A nil client installs
// the fake as http.DefaultTransport.
func Install(client *http.Client) *Fake {
	if client == nil {
		return InstallDefault()
	}
	f := New()
	previous := client.Transport
	client.Transport = f
	f.restore = func() { client.Transport = previous }
	return f
}

// InstallDefault replaces http.DefaultTransport with a new Fake.
func InstallDefault() *Fake {
	f := New()
	defaultMu.Lock()
	previous := http.DefaultTransport
	http.DefaultTransport = f
	defaultMu.Unlock()
	f.restore = func() {
		defaultMu.Lock()
		http.DefaultTransport = previous
		defaultMu.Unlock()
	}
	return f
}

// OnCreate registers the hook called for every request. The hook runs on the
// caller's goroutine inside RoundTrip and must not block; it should hand the
// request to another goroutine that eventually calls Respond.
func (f *Fake) OnCreate(fn func(*PendingRequest)) {
	f.mu.Lock()
	f.onCreate = fn
	f.mu.Unlock()
}

// Created returns how many requests have reached the fake.
func (f *Fake) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Restore puts back the transport that was replaced and fails any request
// still waiting for a response. It is safe to call more than once.
func (f *Fake) Restore() {
	f.once.Do(func() {
		f.restore()
		close(f.restored)
	})
}

// RoundTrip implements http.RoundTripper.
func (f *Fake) RoundTrip(req *http.Request) (*http.Response, error) {
	select {
	case <-f.restored:
		closeBody(req)
		return nil, ErrRestored
	default:
	}

	f.mu.Lock()
	hook := f.onCreate
	f.created++
	f.mu.Unlock()

	if hook == nil {
		closeBody(req)
		return nil, ErrNoHook
	}

	pending := NewPendingRequest(req)
	hook(pending)

	select {
	case resp := <-pending.response:
		return resp, nil
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case <-f.restored:
		return nil, ErrRestored
	}
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
