package conversation

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mocktransport/internal/matching"
	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/normalize"
	"github.com/getmockd/mocktransport/pkg/requestlog"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// invocation is the state of one Run. queue, conversation, spec and
// captured are owned by the worker goroutine until it exits; Run reads them
// only after join.
type invocation struct {
	id  string
	cfg *config
	log *slog.Logger

	queue        []expect.Expectation
	consumed     int
	sequence     int
	conversation []matching.Exchange
	spec         []matching.ExpectedExchange
	captured     error

	created   chan *transport.PendingRequest
	stop      chan struct{}
	stopped   chan struct{}
	early     chan struct{}
	earlyOnce sync.Once
	stopOnce  sync.Once
}

// exchange tracks one intercepted request through the state machine.
type exchange struct {
	id       string
	sequence int
	index    int
	state    State
	started  time.Time
	pending  *transport.PendingRequest

	expectation *expect.Expectation
	actual      *message.Request
	pattern     *message.RequestPattern
	response    *message.Response
	status      int
	err         error
}

func newInvocation(cfg *config, expectations expect.Expectations) *invocation {
	id := uuid.NewString()
	return &invocation{
		id:      id,
		cfg:     cfg,
		log:     cfg.log.With("invocation", id),
		queue:   expectations.Items(),
		created: make(chan *transport.PendingRequest),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		early:   make(chan struct{}),
	}
}

// hand is the transport's OnCreate hook. It passes the request to the
// worker and returns once the worker has taken it.
func (inv *invocation) hand(p *transport.PendingRequest) {
	select {
	case inv.created <- p:
	case <-inv.stop:
	}
}

// work processes intercepted requests one at a time, in creation order.
func (inv *invocation) work() {
	defer close(inv.stopped)
	for {
		select {
		case p := <-inv.created:
			inv.process(p)
		case <-inv.stop:
			return
		}
	}
}

// join stops the worker and waits until it has finished the request it is
// processing.
func (inv *invocation) join() {
	inv.stopOnce.Do(func() { close(inv.stop) })
	<-inv.stopped
}

func (inv *invocation) process(p *transport.PendingRequest) {
	x := &exchange{
		id:       uuid.NewString(),
		sequence: inv.sequence,
		index:    requestlog.NoExpectation,
		state:    StateCreated,
		started:  time.Now(),
		pending:  p,
	}
	inv.sequence++
	inv.log.Debug("request intercepted",
		"exchange", x.id, "sequence", x.sequence, "method", p.Method, "url", p.URL)

	inv.transition(x, StateDequeuing)
	if len(inv.queue) == 0 {
		inv.noExpectationLeft(x)
	} else {
		e := inv.queue[0]
		inv.queue = inv.queue[1:]
		x.expectation = &e
		x.index = inv.consumed
		inv.consumed++
		inv.log.Debug("expectation dequeued", "exchange", x.id, "index", x.index, "remaining", len(inv.queue))
		inv.transition(x, StateHasExpectation)
		inv.hasExpectation(x)
	}
	inv.record(x)
}

// noExpectationLeft records the request as an exchange without a response,
// resolves the invocation early and unblocks the caller with a bare 200.
func (inv *invocation) noExpectationLeft(x *exchange) {
	inv.transition(x, StateNoExpectationLeft)
	inv.resolveEarly(x)

	actual, err := normalize.ActualRequest(x.pending)
	if err != nil {
		inv.abort(x, err)
		return
	}
	x.actual = actual
	inv.conversation = append(inv.conversation, matching.Exchange{Request: actual})
	inv.respondBare(x)
	inv.transition(x, StateDone)
}

func (inv *invocation) hasExpectation(x *exchange) {
	inv.transition(x, StateNormalizingActual)
	actual, err := normalize.ActualRequest(x.pending)
	if err != nil {
		inv.abort(x, err)
		return
	}
	x.actual = actual

	pattern, err := normalize.ExpectedRequest(x.expectation.Request)
	if err != nil {
		inv.abort(x, err)
		return
	}
	x.pattern = pattern

	inv.transition(x, StatePerRequestCheck)
	b := matching.SatisfyRequest(actual, pattern)
	if !b.Matched() {
		inv.log.Debug("per-request check failed", "exchange", x.id, "index", x.index, "reason", b.Reason)
		inv.abort(x, &MismatchError{
			Index:    x.index,
			Reason:   b.Reason,
			Rendered: strings.Join(matching.RenderRequest(actual, pattern, b), "\n"),
		})
		return
	}

	inv.transition(x, StateResponding)
	resp, err := normalize.MockResponse(x.expectation.Response)
	if err != nil {
		inv.abort(x, err)
		return
	}
	if err := normalize.Deliver(x.pending, resp); err != nil {
		inv.abort(x, err)
		return
	}
	x.response = resp
	x.status = resp.StatusCode
	inv.conversation = append(inv.conversation, matching.Exchange{Request: actual, Response: resp})
	inv.spec = append(inv.spec, matching.ExpectedExchange{Request: pattern})
	inv.log.Debug("response delivered", "exchange", x.id, "status", resp.StatusCode)
	inv.transition(x, StateDone)
}

// abort captures err if nothing was captured yet and makes sure the
// request still gets a response.
func (inv *invocation) abort(x *exchange, err error) {
	x.err = err
	if inv.captured == nil {
		inv.captured = err
	}
	inv.transition(x, StateAborted)
	inv.respondBare(x)
}

func (inv *invocation) respondBare(x *exchange) {
	if x.pending.Responded() {
		return
	}
	if err := normalize.DeliverBare(x.pending); err != nil {
		inv.log.Debug("bare response not delivered", "exchange", x.id, "error", err)
		return
	}
	x.status = 200
}

func (inv *invocation) resolveEarly(x *exchange) {
	inv.earlyOnce.Do(func() {
		inv.log.Debug("no expectation left, resolving early", "exchange", x.id, "sequence", x.sequence)
		close(inv.early)
	})
}

func (inv *invocation) transition(x *exchange, to State) {
	from := x.state
	x.state = to
	if inv.cfg.observer == nil {
		return
	}
	t := Transition{
		InvocationID: inv.id,
		ExchangeID:   x.id,
		Sequence:     x.sequence,
		From:         from,
		To:           to,
	}
	if to == StateAborted {
		t.Err = x.err
	}
	inv.cfg.observer(t)
}

// record writes the finished exchange to the request log.
func (inv *invocation) record(x *exchange) {
	if inv.cfg.requestLog == nil {
		return
	}
	entry := &requestlog.Entry{
		ID:               x.id,
		InvocationID:     inv.id,
		Sequence:         x.sequence,
		Timestamp:        x.started,
		Method:           x.pending.Method,
		URL:              x.pending.URL,
		Headers:          x.pending.RequestHeaders.Clone(),
		ExpectationIndex: x.index,
		State:            x.state.String(),
		ResponseStatus:   x.status,
		DurationMs:       time.Since(x.started).Milliseconds(),
	}
	if x.actual != nil {
		entry.Path = x.actual.Path
	}
	if body, err := x.pending.RequestBody(); err == nil {
		entry.SetBody(body)
	}
	if x.response != nil {
		entry.ResponseBody = x.response.Body.Text()
	}
	if x.err != nil {
		entry.Error = x.err.Error()
	}
	inv.cfg.requestLog.Log(entry)
}
