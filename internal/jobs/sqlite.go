package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists job records in a SQLite database so a restarted
// daemon can still answer queries for earlier jobs.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const jobColumns = `id, video_id, status, progress, output_path, public_url, error_message,
	out_format, out_codec, out_quality, out_resolution, out_fps, created_at, updated_at`

// sqliteTimeFormat is fixed-width so stored timestamps compare correctly as
// strings in ORDER BY and range predicates.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// OpenSQLite initializes or connects to the job database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.createSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS burnin_jobs (
		id TEXT PRIMARY KEY,
		video_id TEXT NOT NULL,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		output_path TEXT,
		public_url TEXT,
		error_message TEXT,
		out_format TEXT,
		out_codec TEXT,
		out_quality TEXT,
		out_resolution TEXT,
		out_fps REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, job *Job) error {
	if job == nil || job.ID == "" {
		return errors.New("job id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO burnin_jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.VideoID,
		string(job.Status),
		job.Progress,
		nullableString(job.OutputPath),
		nullableString(job.PublicURL),
		nullableString(job.ErrorMessage),
		nullableString(job.Output.Format),
		nullableString(job.Output.Codec),
		nullableString(job.Output.Quality),
		nullableString(job.Output.Resolution),
		job.Output.FPS,
		job.CreatedAt.UTC().Format(sqliteTimeFormat),
		job.UpdatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM burnin_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (s *SQLiteStore) Update(ctx context.Context, job *Job) error {
	if job == nil || job.ID == "" {
		return errors.New("job id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE burnin_jobs
		 SET video_id = ?, status = ?, progress = ?, output_path = ?, public_url = ?,
		     error_message = ?, out_format = ?, out_codec = ?, out_quality = ?,
		     out_resolution = ?, out_fps = ?, updated_at = ?
		 WHERE id = ?`,
		job.VideoID,
		string(job.Status),
		job.Progress,
		nullableString(job.OutputPath),
		nullableString(job.PublicURL),
		nullableString(job.ErrorMessage),
		nullableString(job.Output.Format),
		nullableString(job.Output.Codec),
		nullableString(job.Output.Quality),
		nullableString(job.Output.Resolution),
		job.Output.FPS,
		job.UpdatedAt.UTC().Format(sqliteTimeFormat),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM burnin_jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*Job, error) {
	boundary := cutoff.UTC().Format(sqliteTimeFormat)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM burnin_jobs
		 WHERE updated_at < ? AND status IN ('completed', 'failed')`, boundary)
	if err != nil {
		return nil, fmt.Errorf("select expired jobs: %w", err)
	}
	var expired []*Job
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		expired = append(expired, job)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(expired) == 0 {
		return nil, nil
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM burnin_jobs
		 WHERE updated_at < ? AND status IN ('completed', 'failed')`, boundary); err != nil {
		return nil, fmt.Errorf("delete expired jobs: %w", err)
	}
	return expired, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(scanner rowScanner) (*Job, error) {
	var (
		job          Job
		status       string
		outputPath   sql.NullString
		publicURL    sql.NullString
		errorMessage sql.NullString
		outFormat    sql.NullString
		outCodec     sql.NullString
		outQuality   sql.NullString
		outRes       sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := scanner.Scan(
		&job.ID,
		&job.VideoID,
		&status,
		&job.Progress,
		&outputPath,
		&publicURL,
		&errorMessage,
		&outFormat,
		&outCodec,
		&outQuality,
		&outRes,
		&job.Output.FPS,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	job.Status = normalizeStatus(status)
	job.OutputPath = outputPath.String
	job.PublicURL = publicURL.String
	job.ErrorMessage = errorMessage.String
	job.Output.Format = outFormat.String
	job.Output.Codec = outCodec.String
	job.Output.Quality = outQuality.String
	job.Output.Resolution = outRes.String

	var err error
	if job.CreatedAt, err = time.Parse(sqliteTimeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if job.UpdatedAt, err = time.Parse(sqliteTimeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
