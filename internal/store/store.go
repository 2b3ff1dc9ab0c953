package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/visagekit/visage/internal/colorspace"
)

// Store manages the PostgreSQL connection and pgvector operations.
type Store struct {
	conn *pgx.Conn
}

// VideoRecord is one row of the processed-video catalog.
type VideoRecord struct {
	ID          string
	Path        string
	ColorSpace  string
	ProcessedAt time.Time
	MeanColor   []float64 // nil when no samples were extracted
	SampleCount int
}

// SimilarVideo pairs a catalog row with its distance to a query color.
type SimilarVideo struct {
	VideoRecord
	Distance float64
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the necessary tables and vector extension if they don't exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			run_id UUID NOT NULL,
			color_space TEXT NOT NULL,
			mean_color VECTOR(3),
			processed_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS color_samples (
			id BIGSERIAL PRIMARY KEY,
			video_id TEXT REFERENCES videos(id),
			ts DOUBLE PRECISION NOT NULL,
			c1 DOUBLE PRECISION,
			c2 DOUBLE PRECISION,
			c3 DOUBLE PRECISION
		);
		CREATE TABLE IF NOT EXISTS extrema (
			video_id TEXT REFERENCES videos(id),
			channel TEXT NOT NULL,
			min_r INT, min_g INT, min_b INT,
			max_r INT, max_g INT, max_b INT,
			PRIMARY KEY (video_id, channel)
		);
		CREATE INDEX IF NOT EXISTS color_samples_video_id_idx ON color_samples (video_id);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// EnsureVideo registers the video in the catalog under a fresh run ID. Any
// samples and extrema from a previous run of the same video are cleared so
// re-processing stays idempotent.
func (s *Store) EnsureVideo(ctx context.Context, videoID, path, space string) error {
	if _, err := s.conn.Exec(ctx, "DELETE FROM color_samples WHERE video_id = $1", videoID); err != nil {
		return err
	}
	if _, err := s.conn.Exec(ctx, "DELETE FROM extrema WHERE video_id = $1", videoID); err != nil {
		return err
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO videos (id, path, run_id, color_space, mean_color, processed_at)
		VALUES ($1, $2, $3, $4, NULL, NOW())
		ON CONFLICT (id) DO UPDATE SET
			path = EXCLUDED.path,
			run_id = EXCLUDED.run_id,
			color_space = EXCLUDED.color_space,
			mean_color = NULL,
			processed_at = NOW()
	`, videoID, path, uuid.New(), space)
	return err
}

// RegisterVideo inserts a catalog row for a video not yet known, without
// clearing results from previous runs. Existing rows are left untouched.
func (s *Store) RegisterVideo(ctx context.Context, videoID, path, space string) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO videos (id, path, run_id, color_space)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, videoID, path, uuid.New(), space)
	return err
}

// InsertSamples bulk-loads the per-frame samples for one video. Empty samples
// (frames whose mask covered no pixels) are stored with NULL channels so the
// timestamp row survives without polluting aggregates.
func (s *Store) InsertSamples(ctx context.Context, videoID string, samples []colorspace.Sample) error {
	rows := make([][]any, 0, len(samples))
	for _, sm := range samples {
		row := []any{videoID, sm.Timestamp, nil, nil, nil}
		if !sm.Empty {
			for i, v := range sm.Channels {
				row[2+i] = v
			}
		}
		rows = append(rows, row)
	}

	_, err := s.conn.CopyFrom(ctx,
		pgx.Identifier{"color_samples"},
		[]string{"video_id", "ts", "c1", "c2", "c3"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// SetMeanColor stores the whole-run mean as a 3-vector for similarity search.
func (s *Store) SetMeanColor(ctx context.Context, videoID string, vec []float64) error {
	_, err := s.conn.Exec(ctx,
		"UPDATE videos SET mean_color = $1::vector WHERE id = $2",
		vecToString(vec), videoID)
	return err
}

// InsertExtremum records the darkest and brightest colors found for one
// focus channel, replacing any previous result for the same video.
func (s *Store) InsertExtremum(ctx context.Context, videoID, channel string, ex colorspace.Extrema) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO extrema (video_id, channel, min_r, min_g, min_b, max_r, max_g, max_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (video_id, channel) DO UPDATE SET
			min_r = EXCLUDED.min_r, min_g = EXCLUDED.min_g, min_b = EXCLUDED.min_b,
			max_r = EXCLUDED.max_r, max_g = EXCLUDED.max_g, max_b = EXCLUDED.max_b
	`, videoID, channel,
		int(ex.Min.R), int(ex.Min.G), int(ex.Min.B),
		int(ex.Max.R), int(ex.Max.G), int(ex.Max.B))
	return err
}

// ListVideos returns the catalog ordered by most recently processed.
func (s *Store) ListVideos(ctx context.Context) ([]VideoRecord, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT v.id, v.path, v.color_space, v.processed_at, v.mean_color::text,
		       COUNT(s.id)
		FROM videos v
		LEFT JOIN color_samples s ON s.video_id = v.id
		GROUP BY v.id
		ORDER BY v.processed_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VideoRecord
	for rows.Next() {
		var rec VideoRecord
		var mean *string
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.ColorSpace, &rec.ProcessedAt, &mean, &rec.SampleCount); err != nil {
			return nil, err
		}
		if mean != nil {
			rec.MeanColor = parseVec(*mean)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FindSimilarMeanColor ranks videos by cosine distance between their stored
// mean color and the query vector. Videos without a mean are skipped.
func (s *Store) FindSimilarMeanColor(ctx context.Context, vec []float64, limit int) ([]SimilarVideo, error) {
	vecStr := vecToString(vec)
	// <=> is the cosine distance operator in pgvector
	rows, err := s.conn.Query(ctx, `
		SELECT id, path, color_space, processed_at, mean_color::text, mean_color <=> $1::vector
		FROM videos
		WHERE mean_color IS NOT NULL
		ORDER BY mean_color <=> $1::vector ASC
		LIMIT $2
	`, vecStr, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SimilarVideo
	for rows.Next() {
		var sv SimilarVideo
		var mean string
		if err := rows.Scan(&sv.ID, &sv.Path, &sv.ColorSpace, &sv.ProcessedAt, &mean, &sv.Distance); err != nil {
			return nil, err
		}
		sv.MeanColor = parseVec(mean)
		out = append(out, sv)
	}
	return out, rows.Err()
}

// Reset drops all application tables to clear the database state.
// This is useful for development to force a schema refresh without migrations.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, `
		DROP TABLE IF EXISTS color_samples CASCADE;
		DROP TABLE IF EXISTS extrema CASCADE;
		DROP TABLE IF EXISTS videos CASCADE;
	`)
	return err
}

// vecToString formats a float slice into a PostgreSQL vector string format "[1.0,2.0,...]"
func vecToString(vec []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%f", v)
	}
	b.WriteByte(']')
	return b.String()
}

// parseVec is the inverse of vecToString for values read back as ::text.
func parseVec(s string) []float64 {
	s = strings.Trim(s, "[]")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, _ := strconv.ParseFloat(strings.TrimSpace(p), 64)
		out = append(out, v)
	}
	return out
}
