package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// Disk is a diary.Storage keeping one JSON file per date under
// <base>/YYYY/MM/DD.
type Disk struct {
	d        *diskv.Diskv
	basePath string
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a storage backend.
type Option func(*options)

type options struct {
	log zerolog.Logger
	now func() time.Time
}

// WithLogger sets the logger used for unreadable records and watcher errors.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the clock used to stamp Entry.Updated.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewDisk returns a diskv backed store rooted at basePath.
func NewDisk(basePath string, opts ...Option) *Disk {
	o := buildOptions(opts)
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// No cache: other processes write the same tree and Watch
			// consumers must read what is on disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		log:      o.log.With().Str("component", "store").Str("backend", BackendDiskv).Logger(),
		now:      o.now,
	}
}

// record is the on-disk shape of an entry. The date lives in the path.
type record struct {
	Content string    `json:"content"`
	Updated time.Time `json:"updated,omitempty"`
}

func (p *Disk) read(key string) (diary.Entry, error) {
	date, err := calendar.ParseDate(key)
	if err != nil {
		return diary.Entry{}, err
	}
	val, err := p.d.Read(key)
	if err != nil {
		return diary.Entry{}, err
	}
	var r record
	if err := json.Unmarshal(val, &r); err != nil {
		return diary.Entry{}, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return diary.Entry{Date: date, Content: r.Content, Updated: r.Updated}, nil
}

func (p *Disk) GetEntry(_ context.Context, date calendar.Date) (diary.Entry, error) {
	e, err := p.read(toKey(date))
	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, fs.ErrNotExist):
		return diary.Entry{}, diary.NotFound(date)
	default:
		return diary.Entry{}, diary.PersistenceFailure(date, err)
	}
}

func (p *Disk) SaveEntry(_ context.Context, e diary.Entry) error {
	if e.Blank() {
		return diary.Validation("content cannot be blank")
	}
	if !e.Date.Valid() {
		return diary.Validation(fmt.Sprintf("invalid date %s", e.Date))
	}
	data, err := json.Marshal(record{Content: e.Content, Updated: p.now().UTC()})
	if err != nil {
		return diary.PersistenceFailure(e.Date, err)
	}
	if err := p.d.Write(toKey(e.Date), data); err != nil {
		return diary.PersistenceFailure(e.Date, err)
	}
	return nil
}

func (p *Disk) DeleteEntry(_ context.Context, date calendar.Date) error {
	err := p.d.Erase(toKey(date))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return diary.PersistenceFailure(date, err)
	}
	return nil
}

func (p *Disk) HasEntry(_ context.Context, date calendar.Date) (bool, error) {
	return p.d.Has(toKey(date)), nil
}

func (p *Disk) DatesWithEntries(ctx context.Context, year int, month time.Month) (calendar.DateSet, error) {
	set := calendar.NewDateSet()
	for key := range p.d.KeysPrefix(monthPrefix(year, month), ctx.Done()) {
		if date, err := calendar.ParseDate(key); err == nil {
			set.Add(date)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, diary.PersistenceFailure(calendar.Date{}, err)
	}
	return set, nil
}

func (p *Disk) EntriesForMonth(ctx context.Context, year int, month time.Month) ([]diary.Entry, error) {
	entries := p.collect(ctx, monthPrefix(year, month))
	if err := ctx.Err(); err != nil {
		return nil, diary.PersistenceFailure(calendar.Date{}, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

func (p *Disk) AllEntries(ctx context.Context) ([]diary.Entry, error) {
	entries := p.collect(ctx, "")
	if err := ctx.Err(); err != nil {
		return nil, diary.PersistenceFailure(calendar.Date{}, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	return entries, nil
}

// collect reads every entry whose key starts with prefix. Records that fail
// to decode are logged and skipped.
func (p *Disk) collect(ctx context.Context, prefix string) []diary.Entry {
	entries := make([]diary.Entry, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		if _, err := calendar.ParseDate(key); err != nil {
			continue
		}
		e, err := p.read(key)
		if err != nil {
			p.log.Warn().Err(err).Str("key", key).Msg("skip unreadable entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (p *Disk) Close() error { return nil }

// keyToPathTransform maps 2024-01-15 to 2024/01/15. Keys that are not dates
// stay at the base path.
func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{
		Path:     parts[:2],
		FileName: parts[2],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(date calendar.Date) string {
	return date.String()
}

func monthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-", year, int(month))
}

func ensureDir(path string) error {
	if path == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	return nil
}

var _ diary.Storage = (*Disk)(nil)
