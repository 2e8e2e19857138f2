package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// -a, -t and -i are looked at; everything else on the command line is
// ignored.
func parseFlags(cfg *Config) {
	fs, args := flagx.NewFlagSet("cli", os.Args[1:], []string{"-a", "-t", "-i"})

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the accounts API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
