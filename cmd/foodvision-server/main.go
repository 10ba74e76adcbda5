package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"foodvision-server-go/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults plus environment when empty)")
	flag.Parse()

	if err := bootstrap.Run(context.Background(), *configPath); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "foodvision-server failed: %v\n", err)
		os.Exit(1)
	}
}
