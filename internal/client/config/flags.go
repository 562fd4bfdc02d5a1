package config

import (
	"flag"
	"os"

	"github.com/kodbank/kodbank/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   server base URL (e.g., "http://localhost:8080")
//
// os.Args is filtered to only the recognized flags via flagx.FilterArgs,
// avoiding collisions with the -c/-config flags handled by the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
