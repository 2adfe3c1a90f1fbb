package main

import (
	"flag"
	"fmt"
	"os"
	"treats/internal/di"
	"treats/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "configs/config.yml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to stdout and expose /clear/v1")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "treats: %s\n", err)
		os.Exit(1)
	}
}
