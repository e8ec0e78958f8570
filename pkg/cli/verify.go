package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktransport/pkg/conversation"
	"github.com/getmockd/mocktransport/pkg/requestlog"
)

// VerifyResult is the outcome of replaying a request log.
type VerifyResult struct {
	Satisfied    bool   `json:"satisfied"`
	InvocationID string `json:"invocationId,omitempty"`
	Exchanges    int    `json:"exchanges"`
	Excess       []int  `json:"excess,omitempty"`
	Missing      []int  `json:"missing,omitempty"`
	Mismatched   []int  `json:"mismatched,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Rendered     string `json:"rendered,omitempty"`
}

func newVerifyCmd(a *app) *cobra.Command {
	var invocation string

	cmd := &cobra.Command{
		Use:   "verify <expectations> <requestlog.json>",
		Short: "Replay a recorded request log against expectations",
		Long: `Verify replays the exchanges of a request log, as written by
requestlog.MemoryStore.WriteJSON, through the conversation verifier and
prints the annotated conversation when it does not satisfy the expectations.

A log holding several invocations needs --invocation to pick one. Relative
request urls in the log are resolved against the base URL.`,
		Example: `  mocktransport verify fixtures/users.yaml testdata/users.log.json
  mocktransport verify --invocation 3f0c... fixtures/users.yaml run.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, args[0], args[1], invocation)
		},
	}
	cmd.Flags().StringVar(&invocation, "invocation", "", "Invocation ID to replay")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, expectationsPath, logPath, invocation string) error {
	expectations, err := a.loader().Load(expectationsPath)
	if err != nil {
		return err
	}

	f, err := os.Open(logPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	entries, err := requestlog.ReadJSON(f)
	if err != nil {
		return err
	}

	entries, invocation, err = selectInvocation(entries, invocation)
	if err != nil {
		return err
	}
	if err := a.resolveRelative(entries); err != nil {
		return err
	}

	result := VerifyResult{InvocationID: invocation, Exchanges: len(entries)}
	replayErr := conversation.Replay(entries, expectations, conversation.WithLogger(a.log))

	var convErr *conversation.ConversationError
	var mismatch *conversation.MismatchError
	switch {
	case replayErr == nil:
		result.Satisfied = true
	case errors.As(replayErr, &convErr):
		result.Excess = convErr.Excess
		result.Missing = convErr.Missing
		result.Mismatched = convErr.Mismatched
		result.Rendered = convErr.Rendered
	case errors.As(replayErr, &mismatch):
		result.Mismatched = []int{mismatch.Index}
		result.Reason = mismatch.Reason
		result.Rendered = mismatch.Rendered
	default:
		return replayErr
	}
	a.log.Info("replay finished", "satisfied", result.Satisfied, "exchanges", result.Exchanges)

	w := cmd.OutOrStdout()
	if err := a.printResult(w, result, func() {
		if result.Satisfied {
			fmt.Fprintf(w, "conversation satisfied (%s)\n", plural(result.Exchanges, "exchange"))
			return
		}
		fmt.Fprintln(w, replayErr.Error())
	}); err != nil {
		return err
	}
	if !result.Satisfied {
		return ErrVerifyFailed
	}
	return nil
}

// selectInvocation keeps the entries of one invocation in sequence order.
func selectInvocation(entries []*requestlog.Entry, id string) ([]*requestlog.Entry, string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.InvocationID] {
			seen[e.InvocationID] = true
			ids = append(ids, e.InvocationID)
		}
	}

	switch {
	case id != "":
		if !seen[id] {
			return nil, "", fmt.Errorf("request log has no entries for invocation %s", id)
		}
	case len(ids) > 1:
		return nil, "", fmt.Errorf("request log holds %d invocations; choose one with --invocation", len(ids))
	case len(ids) == 1:
		id = ids[0]
	}

	var selected []*requestlog.Entry
	for _, e := range entries {
		if e.InvocationID == id {
			selected = append(selected, e)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Sequence < selected[j].Sequence
	})
	return selected, id, nil
}

func (a *app) resolveRelative(entries []*requestlog.Entry) error {
	base, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing base url: %w", err)
	}
	for _, e := range entries {
		u, err := url.Parse(e.URL)
		if err != nil {
			return fmt.Errorf("entry %d: parsing url %q: %w", e.Sequence, e.URL, err)
		}
		if u.Host != "" {
			continue
		}
		e.URL = base.ResolveReference(u).String()
		a.log.Debug("resolved relative url", "sequence", e.Sequence, "url", e.URL)
	}
	return nil
}
