package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/store/migrations"
)

// SQLite is a diary.Storage on a single SQLite file. Watch only reports
// writes made through this handle.
type SQLite struct {
	db     *sqlx.DB
	log    zerolog.Logger
	now    func() time.Time
	notify notifier
}

type entryRow struct {
	Date      string `db:"date"`
	Content   string `db:"content"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r entryRow) entry() (diary.Entry, error) {
	date, err := calendar.ParseDate(r.Date)
	if err != nil {
		return diary.Entry{}, err
	}
	e := diary.Entry{Date: date, Content: r.Content}
	if r.UpdatedAt > 0 {
		e.Updated = time.UnixMilli(r.UpdatedAt).UTC()
	}
	return e, nil
}

// OpenSQLite opens (or creates) the database at path, enables WAL, and
// applies the embedded migrations.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	o := buildOptions(opts)
	log := o.log.With().Str("component", "store").Str("backend", BackendSQLite).Logger()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure database dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// One writer keeps SQLITE_BUSY out of a single-user diary.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	if err := migrate(ctx, db.DB, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, log: log, now: o.now}, nil
}

func migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// gooseLogger keeps migration chatter off stdout, which the CLI and the MCP
// stdio transport own.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(format, v...)
}

func (s *SQLite) GetEntry(ctx context.Context, date calendar.Date) (diary.Entry, error) {
	var row entryRow
	err := s.db.GetContext(ctx, &row,
		`SELECT date, content, updated_at FROM diary_entries WHERE date = ?`, date.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return diary.Entry{}, diary.NotFound(date)
		}
		return diary.Entry{}, diary.PersistenceFailure(date, err)
	}
	e, err := row.entry()
	if err != nil {
		return diary.Entry{}, diary.PersistenceFailure(date, err)
	}
	return e, nil
}

func (s *SQLite) SaveEntry(ctx context.Context, e diary.Entry) error {
	if e.Blank() {
		return diary.Validation("content cannot be blank")
	}
	if !e.Date.Valid() {
		return diary.Validation(fmt.Sprintf("invalid date %s", e.Date))
	}
	query := `
		INSERT INTO diary_entries (date, content, updated_at)
		VALUES (:date, :content, :updated_at)
		ON CONFLICT(date) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at`
	row := entryRow{Date: e.Date.String(), Content: e.Content, UpdatedAt: s.now().UnixMilli()}
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return diary.PersistenceFailure(e.Date, err)
	}
	s.notify.publish(diary.Event{Type: diary.EventEntryChanged, Date: e.Date})
	return nil
}

func (s *SQLite) DeleteEntry(ctx context.Context, date calendar.Date) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE date = ?`, date.String())
	if err != nil {
		return diary.PersistenceFailure(date, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.notify.publish(diary.Event{Type: diary.EventEntryChanged, Date: date})
	}
	return nil
}

func (s *SQLite) HasEntry(ctx context.Context, date calendar.Date) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM diary_entries WHERE date = ?`, date.String())
	if err != nil {
		return false, diary.PersistenceFailure(date, err)
	}
	return n > 0, nil
}

func (s *SQLite) DatesWithEntries(ctx context.Context, year int, month time.Month) (calendar.DateSet, error) {
	from, to := monthRange(year, month)
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT date FROM diary_entries WHERE date >= ? AND date < ?`, from, to)
	if err != nil {
		return nil, diary.PersistenceFailure(calendar.Date{}, err)
	}
	set := calendar.NewDateSet()
	for _, key := range keys {
		if d, err := calendar.ParseDate(key); err == nil {
			set.Add(d)
		}
	}
	return set, nil
}

func (s *SQLite) EntriesForMonth(ctx context.Context, year int, month time.Month) ([]diary.Entry, error) {
	from, to := monthRange(year, month)
	return s.selectEntries(ctx,
		`SELECT date, content, updated_at FROM diary_entries WHERE date >= ? AND date < ? ORDER BY date ASC`, from, to)
}

func (s *SQLite) AllEntries(ctx context.Context) ([]diary.Entry, error) {
	return s.selectEntries(ctx, `SELECT date, content, updated_at FROM diary_entries ORDER BY date DESC`)
}

func (s *SQLite) selectEntries(ctx context.Context, query string, args ...interface{}) ([]diary.Entry, error) {
	rows := []entryRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, diary.PersistenceFailure(calendar.Date{}, err)
	}
	entries := make([]diary.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			s.log.Warn().Err(err).Str("date", row.Date).Msg("skip unreadable entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *SQLite) Watch(ctx context.Context) (<-chan diary.Event, error) {
	return s.notify.subscribe(ctx), nil
}

func (s *SQLite) Close() error {
	s.notify.closeAll()
	return s.db.Close()
}

// monthRange returns the half-open ISO key range covering the month.
func monthRange(year int, month time.Month) (string, string) {
	ny, nm := calendar.NextMonth(year, month)
	return calendar.NewDate(year, month, 1).String(), calendar.NewDate(ny, nm, 1).String()
}

var _ diary.Storage = (*SQLite)(nil)
