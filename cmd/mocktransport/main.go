// mocktransport CLI - validate expectation files and verify recorded
// conversations against them.
package main

import (
	"os"

	"github.com/getmockd/mocktransport/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Execute())
}
