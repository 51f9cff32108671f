package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"placefacts/internal/models"
)

const landmarksSchema = `
CREATE TABLE IF NOT EXISTS landmarks (
	ordinal       INTEGER NOT NULL,
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	lat           DOUBLE PRECISION NOT NULL,
	lon           DOUBLE PRECISION NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	categories    TEXT[] NOT NULL DEFAULT '{}',
	wikipedia_url TEXT NOT NULL DEFAULT '',
	country       TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL DEFAULT '',
	language      TEXT NOT NULL DEFAULT ''
)`

var landmarkColumns = []string{
	"ordinal", "id", "name", "lat", "lon", "description", "categories",
	"wikipedia_url", "country", "city", "type", "language",
}

// Postgres stores the landmark dataset in a single table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, landmarksSchema); err != nil {
		return fmt.Errorf("failed to create landmarks table: %w", err)
	}
	return nil
}

// ReplaceLandmarks swaps the table contents for landmarks in one transaction.
func (p *Postgres) ReplaceLandmarks(ctx context.Context, landmarks []models.Landmark) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE landmarks"); err != nil {
		return 0, fmt.Errorf("failed to truncate landmarks: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"landmarks"}, landmarkColumns,
		pgx.CopyFromSlice(len(landmarks), func(i int) ([]any, error) {
			lm := landmarks[i]
			categories := lm.Categories
			if categories == nil {
				categories = []string{}
			}
			return []any{
				i, string(lm.ID), lm.Name, lm.Coordinates.Lat, lm.Coordinates.Lon, lm.Description, categories,
				lm.WikipediaURL, lm.Country, lm.City, lm.Type, lm.Language,
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy landmarks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit landmarks: %w", err)
	}
	log.WithField("rows", n).Info("Exported landmarks to postgres")
	return n, nil
}

// QueryLandmarks returns every stored landmark in dataset order.
func (p *Postgres) QueryLandmarks(ctx context.Context) ([]models.Landmark, error) {
	rows, err := p.pool.Query(ctx, "SELECT "+strings.Join(landmarkColumns, ", ")+" FROM landmarks ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("failed to query landmarks: %w", err)
	}
	defer rows.Close()

	var landmarks []models.Landmark
	for rows.Next() {
		var (
			lm      models.Landmark
			ordinal int
			id      string
		)
		if err := rows.Scan(
			&ordinal, &id, &lm.Name, &lm.Coordinates.Lat, &lm.Coordinates.Lon, &lm.Description, &lm.Categories,
			&lm.WikipediaURL, &lm.Country, &lm.City, &lm.Type, &lm.Language,
		); err != nil {
			return nil, fmt.Errorf("failed to scan landmark: %w", err)
		}
		lm.ID = models.ID(id)
		landmarks = append(landmarks, lm)
	}
	return landmarks, rows.Err()
}
