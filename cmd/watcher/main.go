package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/bridge-claims/pkg/app"
	"github.com/chainsafe/bridge-claims/pkg/app/watcher"
	"github.com/chainsafe/bridge-claims/pkg/config"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadWatcher(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = watcher.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		os.Exit(1)
	}
}
