package main

import (
	"fmt"
	"os"
	"strings"

	_ "time/tzdata"

	"jendo-cli/internal/cli"
)

func rewriteReportPathArgs(argv []string) []string {
	// Convenience: `jendo my-reports/1/7/42` works like `jendo open my-reports/1/7/42`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `jendo --api-url ... my-reports/...`), so we look
	// for the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the path is never eaten.
	valueFlags := map[string]bool{
		"--api-url":   true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertOpen := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "open")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && cli.IsReportPath(argv[i+1]) {
				return insertOpen(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if cli.IsReportPath(a) {
			return insertOpen(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteReportPathArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
