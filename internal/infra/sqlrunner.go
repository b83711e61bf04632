package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor is the subset of pgxpool used by the repositories.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// Every statement starts with a "--sql <table>.<name>" line used as its log name.
var markerRegexp = regexp.MustCompile(`^--sql [a-z_]+\.[a-z_]+$`)

// SQLRunner executes named statements on a pool and logs each one.
type SQLRunner struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	name, body, err := SplitMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := time.Now()
	tag, err := r.Pool.Exec(ctx, body, args...)
	r.log(name, "exec", start, err)
	return tag, err
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	name, body, err := SplitMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	return loggingRow{row: r.Pool.QueryRow(ctx, body, args...), runner: r, name: name, start: time.Now()}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	name, body, err := SplitMarker(query)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := r.Pool.Query(ctx, body, args...)
	r.log(name, "query", start, err)
	return rows, err
}

func (r *SQLRunner) log(name, op string, start time.Time, err error) {
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.Logger.Error().Err(err).Str("sql", name).Str("op", op).Msg("sql failed")
		return
	}
	r.Logger.Debug().Str("sql", name).Str("op", op).Dur("elapsed", time.Since(start)).Msg("sql ok")
}

type loggingRow struct {
	row    pgx.Row
	runner *SQLRunner
	name   string
	start  time.Time
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	l.runner.log(l.name, "query_row", l.start, err)
	return err
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

// SplitMarker separates the leading "--sql" name line from the statement body.
func SplitMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	first, rest, _ := strings.Cut(trimmed, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", "", errors.New("empty query")
	}
	if !markerRegexp.MatchString(first) {
		return "", "", errors.New("sql marker missing or invalid")
	}
	return strings.TrimPrefix(first, "--sql "), rest, nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
