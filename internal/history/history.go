// Package history persists a campaign's ModelData snapshots, one row per
// analyzed day, so a run can resume or be queried without re-running
// DailyAnalyzer/BayesPredictor. Disk persistence format is an
// external-collaborator concern (spec §1 Non-goals); this package only
// fixes a storage contract a Postgres-backed implementation satisfies.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/electionforecast/internal/forecast"
	"github.com/yourusername/electionforecast/internal/logger"
)

// ErrNotFound is returned when a requested date has no stored snapshot.
var ErrNotFound = errors.New("history: snapshot not found")

// Repository stores and retrieves ModelData snapshots for one campaign.
type Repository interface {
	Save(ctx context.Context, md forecast.ModelData) error
	SaveAll(ctx context.Context, history []forecast.ModelData) error
	Get(ctx context.Context, day forecast.Date) (forecast.ModelData, error)
	All(ctx context.Context) ([]forecast.ModelData, error)
	Reset(ctx context.Context) error
}

// DB wraps a pgxpool.Pool, the same thin-wrapper shape the teacher used
// for its own Postgres connection (connect, ping, close, hand the pool to
// repositories).
type DB struct {
	pool *pgxpool.Pool
}

// Config configures the connection pool.
type Config struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConnections int
}

// Connect opens a connection pool and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("history: parsing connection config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("history: creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history: pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the connection pool is reachable, satisfying
// health.DatabasePinger.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// PostgresRepository stores ModelData as one JSONB column per date row:
// the per-day schema is fixed (spec §3), but its shape is large and
// nested enough (four ChamberSummary blocks, each with a Prediction)
// that mapping it to individual SQL columns would just re-describe the
// Go struct in a second, parallel schema with no behavioral benefit --
// the campaign_name/date columns stay queryable; the payload is a single
// scanned/marshaled blob.
type PostgresRepository struct {
	db           *DB
	campaignName string
	audit        *logger.AuditLogger
}

// NewPostgresRepository returns a Repository scoped to one named
// campaign (so a single database can hold multiple campaigns' history,
// e.g. a midterm year next to a presidential year). baseLogger may be
// nil, in which case the repository logs nothing beyond the errors it
// already returns.
func NewPostgresRepository(db *DB, campaignName string, baseLogger *logrus.Logger) *PostgresRepository {
	r := &PostgresRepository{db: db, campaignName: campaignName}
	if baseLogger != nil {
		r.audit = logger.NewAuditLogger(baseLogger)
	}
	return r
}

func (r *PostgresRepository) Save(ctx context.Context, md forecast.ModelData) error {
	payload, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("history: marshaling snapshot: %w", err)
	}
	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO forecast_history (campaign_name, analysis_date, generated_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (campaign_name, analysis_date)
		DO UPDATE SET generated_at = EXCLUDED.generated_at, payload = EXCLUDED.payload
	`, r.campaignName, md.Date.Time(), md.GeneratedAt, payload)
	if err != nil {
		return fmt.Errorf("history: saving snapshot for %s: %w", md.Date, err)
	}
	if r.audit != nil {
		r.audit.LogSnapshotSaved(r.campaignName, md.Date.String(), len(payload))
	}
	return nil
}

// SaveAll persists every day in history, continuing past individual
// failures and returning the first error encountered (mirrors Driver's
// "partial results still written" rule, spec §7, for the persistence
// boundary as well as the analysis boundary).
func (r *PostgresRepository) SaveAll(ctx context.Context, history []forecast.ModelData) error {
	var firstErr error
	saved, failed := 0, 0
	for _, md := range history {
		if err := r.Save(ctx, md); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	if r.audit != nil {
		r.audit.LogSnapshotBatchSaved(r.campaignName, saved, failed)
	}
	return firstErr
}

func (r *PostgresRepository) Get(ctx context.Context, day forecast.Date) (forecast.ModelData, error) {
	var payload []byte
	err := r.db.pool.QueryRow(ctx, `
		SELECT payload FROM forecast_history WHERE campaign_name = $1 AND analysis_date = $2
	`, r.campaignName, day.Time()).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return forecast.ModelData{}, ErrNotFound
	}
	if err != nil {
		return forecast.ModelData{}, fmt.Errorf("history: querying snapshot for %s: %w", day, err)
	}
	var md forecast.ModelData
	if err := json.Unmarshal(payload, &md); err != nil {
		return forecast.ModelData{}, fmt.Errorf("history: unmarshaling snapshot for %s: %w", day, err)
	}
	return md, nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]forecast.ModelData, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT payload FROM forecast_history WHERE campaign_name = $1 ORDER BY analysis_date ASC
	`, r.campaignName)
	if err != nil {
		return nil, fmt.Errorf("history: querying history: %w", err)
	}
	defer rows.Close()

	var out []forecast.ModelData
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("history: scanning snapshot row: %w", err)
		}
		var md forecast.ModelData
		if err := json.Unmarshal(payload, &md); err != nil {
			return nil, fmt.Errorf("history: unmarshaling snapshot row: %w", err)
		}
		out = append(out, md)
	}
	return out, rows.Err()
}

// Reset deletes every stored snapshot for this campaign, used by
// cmd/forecast's --reset-history flag.
func (r *PostgresRepository) Reset(ctx context.Context) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM forecast_history WHERE campaign_name = $1`, r.campaignName)
	if err != nil {
		return fmt.Errorf("history: resetting history: %w", err)
	}
	if r.audit != nil {
		r.audit.LogHistoryReset(r.campaignName, tag.RowsAffected())
	}
	return nil
}
