package db

import (
	"database/sql"
	"fmt"
	"os"

	"finance-dashboard/api/logger"

	_ "github.com/lib/pq"
)

// Open connects to the Postgres database named by DATABASE_URL.
func Open() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	logger.Get().Info("successfully connected to Postgres")
	return conn, nil
}
