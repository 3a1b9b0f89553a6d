package state

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLRepository is a MySQL implementation of the StateRepository interface
type MySQLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLRepository connects to dsn and makes sure the state table exists
func NewMySQLRepository(dsn string, logger *zap.Logger) (*MySQLRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS extension_state (
			state_key VARCHAR(64) PRIMARY KEY,
			value MEDIUMTEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Load returns the value stored under key
func (r *MySQLRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM extension_state WHERE state_key = ?
	`, key).Scan(&value)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query state: %w", err)
	}
	return []byte(value), true, nil
}

// Save stores value under key
func (r *MySQLRepository) Save(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO extension_state (state_key, value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE
			value = VALUES(value)
	`, key, string(value))

	if err != nil {
		return fmt.Errorf("failed to store state %s: %w", key, err)
	}

	r.logger.Debug("Persisted state", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Close closes the database connection
func (r *MySQLRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close MySQL database", zap.Error(err))
		return err
	}
	return nil
}
