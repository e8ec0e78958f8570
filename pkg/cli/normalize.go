package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktransport/internal/matching"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/normalize"
)

// NormalizedExpectation is the canonical form of one expectation.
type NormalizedExpectation struct {
	Index    int                `json:"index"`
	Request  NormalizedRequest  `json:"request"`
	Response NormalizedResponse `json:"response"`
}

// NormalizedRequest is the JSON view of an expected request pattern.
type NormalizedRequest struct {
	Method       string            `json:"method,omitempty"`
	Path         string            `json:"path,omitempty"`
	Host         string            `json:"host,omitempty"`
	Port         *int              `json:"port,omitempty"`
	Encrypted    *bool             `json:"encrypted,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         any               `json:"body,omitempty"`
	BodyJSONPath map[string]any    `json:"bodyJSONPath,omitempty"`
	BodyPattern  string            `json:"bodyPattern,omitempty"`
	Where        string            `json:"where,omitempty"`
}

// NormalizedResponse is the JSON view of the response that would be
// delivered.
type NormalizedResponse struct {
	StatusCode    int               `json:"statusCode"`
	StatusMessage string            `json:"statusMessage"`
	Headers       map[string]string `json:"headers,omitempty"`
	Body          any               `json:"body,omitempty"`
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file>",
		Short: "Print the canonical form of each expectation",
		Long: `Normalize resolves every expectation in a file into the request pattern an
intercepted request must satisfy and the response that would be delivered
for it, with defaults applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNormalize(cmd, args[0])
		},
	}
}

func (a *app) runNormalize(cmd *cobra.Command, path string) error {
	expectations, err := a.loader().Load(path)
	if err != nil {
		return err
	}

	var exchanges []matching.ExpectedExchange
	var out []NormalizedExpectation
	for i, item := range expectations.Items() {
		pattern, err := normalize.ExpectedRequest(item.Request)
		if err != nil {
			return fmt.Errorf("expectation %d: %w", i, err)
		}
		resp, err := normalize.MockResponse(item.Response)
		if err != nil {
			return fmt.Errorf("expectation %d: %w", i, err)
		}
		exchanges = append(exchanges, matching.ExpectedExchange{Request: pattern, Response: resp})
		out = append(out, NormalizedExpectation{
			Index:    i,
			Request:  requestView(pattern),
			Response: responseView(resp),
		})
	}
	a.log.Debug("normalized expectations", "file", path, "count", len(out))

	w := cmd.OutOrStdout()
	return a.printResult(w, out, func() {
		for i, x := range exchanges {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "// expectation %d\n", i)
			for _, line := range constraintLines(x.Request) {
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w, strings.Join(x.Lines(), "\n"))
		}
	})
}

// constraintLines describes the conditions the rendered request does not
// show.
func constraintLines(p *message.RequestPattern) []string {
	var lines []string
	if p.Host != "" {
		lines = append(lines, "// host: "+p.Host)
	}
	if p.Port != nil {
		lines = append(lines, fmt.Sprintf("// port: %d", *p.Port))
	}
	if p.Encrypted != nil {
		lines = append(lines, fmt.Sprintf("// encrypted: %t", *p.Encrypted))
	}
	for _, expr := range slices.Sorted(maps.Keys(p.BodyJSONPath)) {
		lines = append(lines, fmt.Sprintf("// bodyJSONPath %s: %v", expr, p.BodyJSONPath[expr]))
	}
	if p.BodyPattern != "" {
		lines = append(lines, "// bodyPattern: "+p.BodyPattern)
	}
	if p.Where != "" {
		lines = append(lines, "// where: "+p.Where)
	}
	return lines
}

func requestView(p *message.RequestPattern) NormalizedRequest {
	return NormalizedRequest{
		Method:       p.Method,
		Path:         p.Path,
		Host:         p.Host,
		Port:         p.Port,
		Encrypted:    p.Encrypted,
		Headers:      headerView(p.Header),
		Body:         bodyView(p.Body),
		BodyJSONPath: p.BodyJSONPath,
		BodyPattern:  p.BodyPattern,
		Where:        p.Where,
	}
}

func responseView(r *message.Response) NormalizedResponse {
	return NormalizedResponse{
		StatusCode:    r.StatusCode,
		StatusMessage: r.StatusMessage,
		Headers:       headerView(r.Header),
		Body:          bodyView(r.Body),
	}
}

func headerView(h message.Header) map[string]string {
	if h.Len() == 0 {
		return nil
	}
	return h.Map()
}

func bodyView(b message.Body) any {
	switch b.Kind() {
	case message.BodyNone:
		return nil
	case message.BodyJSON:
		return b.Value()
	default:
		return b.Text()
	}
}
