package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdle     time.Duration
	ConnMaxLifetime time.Duration
}

const (
	pingWait       = 20 * time.Second
	pingBackoffCap = 3 * time.Second
)

// NewPostgres opens the pool and waits for the server to answer a ping,
// backing off between attempts. Container startup races make the first
// pings fail routinely.
func NewPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Fatalf("failed to open postgres: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	started := time.Now()
	backoff := 250 * time.Millisecond
	for {
		err := db.Ping()
		if err == nil {
			return db
		}
		if time.Since(started) > pingWait {
			log.Fatalf("postgres did not become ready: %v", err)
		}
		log.Printf("waiting for postgres: %v", err)
		time.Sleep(backoff)
		if backoff *= 2; backoff > pingBackoffCap {
			backoff = pingBackoffCap
		}
	}
}
