package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/foxnuts/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/foxnuts/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	apiURL := flag.String("api", "", "storefront API base URL (optional, overrides config and FOXNUTS_API_URL)")
	syncIssues := flag.Int("sync-issues", 0, "print failed syncs from the last N log lines and exit")
	flag.Parse()

	if n := *syncIssues; n > 0 {
		if err := app.PrintSyncIssues(os.Stdout, *configPath, n); err != nil {
			fmt.Fprintf(os.Stderr, "foxnuts: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "foxnuts: %v\n", err)
		return 1
	}
	return 0
}
