package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tatianab/proposal-game/internal/config"
	"github.com/tatianab/proposal-game/internal/tui"
	"github.com/tatianab/proposal-game/internal/variant"
)

func main() {
	variantFlag := flag.String("variant", "", "built-in variant ("+strings.Join(variant.Names(), ", ")+") or a YAML file")
	debug := flag.String("debug", "", "write the debug log to this file")
	envFile := flag.String("env", ".env", "dotenv file to read before the environment")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *variantFlag != "" {
		cfg.Variant = *variantFlag
	}
	if *debug != "" {
		cfg.DebugLog = *debug
	}

	if err := tui.Launch(cfg); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
