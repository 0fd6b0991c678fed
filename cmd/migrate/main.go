// migrate runs DB migrations from embedded SQL; use with go run ./cmd/migrate.
package main

import (
	"flag"
	"fmt"
	"os"

	"hotel-booking-account/backend/internal/config"
	"hotel-booking-account/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", migrate.Up, "Migration direction: up or down")
	steps := flag.Int("steps", 0, "Number of migrations to apply; 0 applies all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	res, err := migrate.Run(cfg.DatabaseURL, *direction, *steps)
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	if !res.Changed {
		fmt.Printf("no change; schema at version %d\n", res.Version)
		return
	}
	fmt.Printf("migrated %s; schema at version %d (dirty=%v)\n", *direction, res.Version, res.Dirty)
}
