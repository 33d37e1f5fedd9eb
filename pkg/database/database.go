package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"taskhub/configs"

	_ "github.com/lib/pq"
)

// DSN membangun connection string postgres dari config.
func DSN(cfg configs.Config, dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, dbName)
}

func ConnectDB(cfg configs.Config) *sql.DB {
	db, err := Open(DSN(cfg, cfg.DBName))
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	return db
}

// Open opens a pooled postgres handle and pings it once.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
