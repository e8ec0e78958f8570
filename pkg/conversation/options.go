// Option functions for configuring Run.

package conversation

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/mocktransport/pkg/logging"
	"github.com/getmockd/mocktransport/pkg/requestlog"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// DefaultBaseURL resolves relative request urls issued by Request subjects.
const DefaultBaseURL = "http://localhost"

// Option configures a Run.
type Option func(*config)

type config struct {
	log              *slog.Logger
	client           *http.Client
	defaultTransport bool
	requestLog       requestlog.Logger
	baseURL          string
	observer         func(Transition)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		log:     logging.Nop(),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the operational logger. Intercepted requests and
// exchange outcomes are logged at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClient installs the fake transport on client instead of on a fresh
// client. The client's previous transport is restored when Run returns.
func WithClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithDefaultTransport installs the fake transport as http.DefaultTransport
// so code using http.DefaultClient or http.Get is intercepted.
func WithDefaultTransport() Option {
	return func(c *config) {
		c.defaultTransport = true
	}
}

// WithRequestLog records every exchange into log.
func WithRequestLog(log requestlog.Logger) Option {
	return func(c *config) {
		c.requestLog = log
	}
}

// WithBaseURL sets the base url relative Request subjects resolve against.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithObserver calls fn for every exchange state transition. fn runs on the
// interceptor goroutine and must not block.
func WithObserver(fn func(Transition)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// install puts a fake transport in place and returns the client the action
// should use.
func (c *config) install() (*http.Client, *transport.Fake) {
	if c.defaultTransport {
		return http.DefaultClient, transport.InstallDefault()
	}
	client := c.client
	if client == nil {
		client = &http.Client{}
	}
	return client, transport.Install(client)
}
