package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kochabx/restclient"
)

// Version information (set by build flags)
var (
	version = restclient.Version
	commit  = "none"
	date    = "unknown"
)

// Execute runs the command line with os.Args.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the restclient command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "restclient",
		Short: "Issue single HTTP requests from the command line",
		Long: `restclient - a small HTTP client

Each subcommand performs exactly one request and prints the status code,
optionally the response headers, and the body. Transfer failures such as
DNS errors, refused connections or timeouts are printed with their
negative code and make the command exit with status 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (yaml, json or toml)")
	flags.StringArrayP("header", "H", nil, "Extra header (repeatable, e.g., -H 'Accept: application/json')")
	flags.BoolP("include", "i", false, "Print response headers")
	flags.Duration("timeout", 30*time.Second, "Transfer timeout")
	flags.BoolP("follow", "L", false, "Follow redirects")
	flags.String("backend", "", "Transport backend (nethttp, resty)")
	flags.BoolP("insecure", "k", false, "Skip TLS certificate verification")
	flags.BoolP("verbose", "v", false, "Log transfers at debug level")

	for _, method := range []string{"get", "head", "options", "delete"} {
		root.AddCommand(newRequestCmd(method, false))
	}
	for _, method := range []string{"post", "put", "patch"} {
		root.AddCommand(newRequestCmd(method, true))
	}
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "restclient %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
