package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/getmockd/mocktransport/internal/matching"
	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/normalize"
)

type outcome struct {
	value any
	err   error
}

// Run runs subject through assertion with a fake transport installed,
// answering intercepted requests from expectations in order, then verifies
// the conversation. It returns the assertion's value on success.
//
// A nil assertion is NotToError. The fake transport is restored before Run
// returns on every path.
func Run(ctx context.Context, subject Subject, expectations expect.Expectations, assertion Assertion, opts ...Option) (any, error) {
	if subject == nil {
		return nil, errors.New("conversation: nil subject")
	}
	if err := expectations.Validate(); err != nil {
		return nil, err
	}
	if assertion == nil {
		assertion = NotToError()
	}

	cfg := newConfig(opts...)
	client, fake := cfg.install()
	defer fake.Restore()

	inv := newInvocation(cfg, expectations)
	fake.OnCreate(inv.hand)
	go inv.work()
	defer inv.join()

	inv.log.Debug("invocation started", "form", expectations.Form().String(), "expectations", expectations.Len())

	env := &Env{Client: client, BaseURL: cfg.baseURL}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("action panicked: %v", r)}
			}
		}()
		value, err := assertion(ctx, subject, env)
		done <- outcome{value: value, err: err}
	}()

	var out outcome
	early := false
	select {
	case out = <-done:
	case <-inv.early:
		early = true
		// The action's outcome is discarded but it still gets to finish.
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	inv.join()
	select {
	case <-inv.early:
		early = true
	default:
	}
	return inv.verify(out, early)
}

// verify arbitrates between the captured error, the action outcome and the
// conversation diff, in that order.
func (inv *invocation) verify(out outcome, early bool) (any, error) {
	if inv.captured != nil {
		inv.log.Warn("surfacing captured error", "error", inv.captured)
		return nil, inv.captured
	}
	if !early && out.err != nil {
		return nil, &ActionError{Err: out.err}
	}

	for _, e := range inv.queue {
		pattern, err := normalize.ExpectedRequest(e.Request)
		if err != nil {
			return nil, err
		}
		resp, err := normalize.MockResponse(e.Response)
		if err != nil {
			return nil, err
		}
		inv.spec = append(inv.spec, matching.ExpectedExchange{Request: pattern, Response: resp})
	}

	diff := matching.DiffConversation(inv.conversation, inv.spec)
	if !diff.Matched() {
		inv.log.Debug("conversation mismatch",
			"excess", len(diff.Excess), "missing", len(diff.Missing), "mismatched", len(diff.Mismatched))
		return nil, &ConversationError{
			Excess:     diff.Excess,
			Missing:    diff.Missing,
			Mismatched: diff.Mismatched,
			Rendered:   diff.Rendered,
		}
	}
	if early {
		return nil, nil
	}
	return out.value, nil
}
