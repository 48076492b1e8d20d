package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lunarjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-b string    backend base URL
//	-app string  application identifier
//	-t string    session token file
//	-i int       online check interval in seconds
//	-l string    log level
//
// os.Args is filtered to only the flags handled here (flagx.FilterArgs) so
// the -c/-config flags consumed by parseJson do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-app", "-t", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AppID, "app", cfg.AppID, "application identifier")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "session token file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// the interval feeds a ticker, which requires a positive duration
	if *onlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	}
}
