package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLSink persists ranked results to a relational table so runs can be
// compared over time. It is optional and only constructed when a DSN is
// configured.
type MySQLSink struct {
	db *sql.DB
}

// NewMySQLSink opens a connection pool for the given DSN.
func NewMySQLSink(dsn string) (*MySQLSink, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return &MySQLSink{db: db}, nil
}

// NewMySQLSinkWithDB wraps an existing connection, used by tests.
func NewMySQLSinkWithDB(db *sql.DB) *MySQLSink {
	return &MySQLSink{db: db}
}

// Name implements Sink.
func (s *MySQLSink) Name() string { return "mysql" }

// EnsureSchema creates the results table if it does not exist.
func (s *MySQLSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ranked_connections (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id CHAR(36) NOT NULL,
			generated_at DATETIME NOT NULL,
			mode VARCHAR(16) NOT NULL,
			rank_position INT NOT NULL,
			from_stop VARCHAR(255) NOT NULL,
			to_stop VARCHAR(255) NOT NULL,
			gain_seconds DOUBLE NOT NULL,
			travel_seconds DOUBLE NOT NULL,
			distance_km DOUBLE NOT NULL,
			baseline_seconds DOUBLE NOT NULL,
			post_seconds DOUBLE NOT NULL,
			newly_reachable INT NOT NULL,
			INDEX idx_run_mode (run_id, mode)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Write implements Sink: one INSERT per ranked result, tagged with the run ID.
func (s *MySQLSink) Write(ctx context.Context, out *RankedOutput) error {
	query := `
		INSERT INTO ranked_connections (
			run_id, generated_at, mode, rank_position,
			from_stop, to_stop,
			gain_seconds, travel_seconds, distance_km,
			baseline_seconds, post_seconds, newly_reachable
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range out.Results {
		_, err := s.db.ExecContext(ctx, query,
			out.RunID, out.GeneratedAt, string(out.Mode), r.Rank,
			r.FromID, r.ToID,
			r.GainSeconds, r.WeightSeconds, r.DistanceKM,
			r.BaselineSeconds, r.PostSeconds, r.NewlyReachable,
		)
		if err != nil {
			return fmt.Errorf("insert ranked connection %d for mode %s: %w", r.Rank, out.Mode, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *MySQLSink) Close() error {
	return s.db.Close()
}
