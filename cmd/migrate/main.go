// migrate applies the embedded SQLite migrations to the local audit database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"pknews/client/internal/config"
	"pknews/client/internal/db"
	"pknews/client/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	path := flag.String("db", "", "SQLite file; defaults to AUDIT_DB_PATH")
	flag.Parse()

	dbPath := *path
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		dbPath = cfg.AuditDBPath
	}
	if dbPath == "" {
		fmt.Fprintln(os.Stderr, "AUDIT_DB_PATH is not set; pass -db or set AUDIT_DB_PATH")
		os.Exit(1)
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := migrate.Apply(sqlDB, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			// Already at target version; success.
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		sqlDB.Close()
		os.Exit(1)
	}
}
