// Command ls-mission is the mission-control centre: reports over the on-board
// log, the mission catalog and the telemetry feed, plus navigation helpers.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/litescript/ls-mission/internal/control"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		// Loader failures were already reported to the user.
		if !errors.Is(err, control.ErrNoData) {
			fmt.Fprintf(stderr, "Erreur : %v\n", err)
		}
		return 1
	}
	return 0
}
