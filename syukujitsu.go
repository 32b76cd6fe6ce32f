// Package syukujitsu provides Japanese national holiday lookups backed
// by the holiday CSV published by the Cabinet Office of Japan (内閣府).
//
// Unlike libraries that compile the holiday data in at build time, this
// package downloads syukujitsu.csv on first use, parses it into an
// in-memory table, and caches the table for 24 hours. Lookups against a
// fresh cache involve no I/O.
//
// All moment-in-time inputs are normalized to JST (Asia/Tokyo, UTC+9)
// before extracting the calendar date, so the correct Japanese holiday
// is returned regardless of the input timezone. Queries additionally
// accept epoch-millisecond numbers and date strings; see [Normalize].
//
// Basic usage with package-level functions:
//
//	name, err := syukujitsu.HolidayName(ctx, "2024-01-01")
//	// name == "元日"
//
// For isolated cache state or a custom data source, create a Calendar:
//
//	cal := syukujitsu.New(syukujitsu.WithSource(mySource))
//	res, err := cal.IsHoliday(ctx, time.Now())
package syukujitsu

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// cacheTTL is the staleness threshold: a cached table older than this
// is repopulated on the next query.
const cacheTTL = 24 * time.Hour

// Holiday represents a single holiday entry.
type Holiday struct {
	Date time.Time // The date of the holiday (midnight UTC).
	Name string    // The Japanese name of the holiday (e.g., "元日").
}

// HolidayResult is the answer to an IsHoliday query.
type HolidayResult struct {
	IsHoliday bool
	Name      string    // Holiday name; empty when IsHoliday is false.
	Date      time.Time // The normalized date that was looked up.
}

// Calendar owns one cached holiday table and answers date queries
// against it. Create one with [New]. All methods are safe for
// concurrent use; at most one population (fetch and parse) is in
// flight at a time, and concurrent callers share its result.
type Calendar struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu        sync.RWMutex
	table     map[string]string // replaced wholesale on refresh, never mutated
	fetchedAt time.Time
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithSource replaces the default [CabinetOfficeSource].
func WithSource(source Source) Option {
	return func(c *Calendar) { c.source = source }
}

// WithTTL overrides the 24-hour staleness threshold.
func WithTTL(ttl time.Duration) Option {
	return func(c *Calendar) { c.ttl = ttl }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Calendar) {
		c.logger = logger.With().Str("component", "Calendar").Logger()
	}
}

// withNow overrides the clock. Tests only.
func withNow(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// New creates a Calendar backed by the Cabinet Office CSV. The table
// is populated lazily on the first query.
func New(opts ...Option) *Calendar {
	c := &Calendar{
		ttl:    cacheTTL,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = NewCabinetOfficeSource()
	}
	return c
}

// defaultCal is the package-level calendar used by top-level functions.
var defaultCal = New()

// freshTable returns the current table, populating or refreshing it
// first when needed.
//
// Failure semantics: if there is no prior table, a failed population is
// returned to the caller. If a refresh of an already-populated table
// fails, the stale table keeps serving and the failure is only logged;
// the next query past the threshold retries.
func (c *Calendar) freshTable(ctx context.Context) (map[string]string, error) {
	c.mu.RLock()
	table, fetchedAt := c.table, c.fetchedAt
	c.mu.RUnlock()
	if table != nil && c.now().Sub(fetchedAt) < c.ttl {
		return table, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another caller may have populated while we waited.
	if c.table != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.table, nil
	}

	if err := c.populateLocked(ctx); err != nil {
		if c.table == nil {
			return nil, err
		}
		c.logger.Warn().Err(err).
			Time("fetched_at", c.fetchedAt).
			Msg("refresh failed, serving stale table")
		return c.table, nil
	}
	return c.table, nil
}

// populateLocked runs one fetch→parse→replace cycle. On failure the
// prior table and timestamp are left untouched. Caller holds c.mu.
func (c *Calendar) populateLocked(ctx context.Context) error {
	data, err := c.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("populating holiday table: %w", err)
	}
	table := parseTable(data)
	c.table = table
	c.fetchedAt = c.now()
	c.logger.Debug().Int("entries", len(table)).Msg("holiday table populated")
	return nil
}

// Refresh forces a repopulation regardless of staleness. On failure
// the prior table (if any) is kept and the error is returned.
func (c *Calendar) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.populateLocked(ctx)
}

// LastFetchedAt returns the time of the most recent successful
// population. Returns false if the table has never been populated.
func (c *Calendar) LastFetchedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table == nil {
		return time.Time{}, false
	}
	return c.fetchedAt, true
}

// CachedHolidays returns the currently cached holidays sorted by date,
// without triggering any fetch. Entries whose date column did not
// match the canonical format are omitted. Returns nil if the table has
// never been populated.
func (c *Calendar) CachedHolidays() []Holiday {
	c.mu.RLock()
	table := c.table
	c.mu.RUnlock()

	var result []Holiday
	for key, name := range table {
		t, err := time.Parse(dateKeyLayout, key)
		if err != nil {
			continue
		}
		result = append(result, Holiday{Date: t, Name: name})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// lookup normalizes v and resolves it against a fresh table.
func (c *Calendar) lookup(ctx context.Context, v any) (time.Time, string, error) {
	day, err := Normalize(v)
	if err != nil {
		return time.Time{}, "", err
	}
	table, err := c.freshTable(ctx)
	if err != nil {
		return time.Time{}, "", err
	}
	return day, table[dateKey(day)], nil
}

// HolidayName returns the holiday name for the given date, or an empty
// string if it is not a holiday. The date may be a time.Time, an
// epoch-millisecond number, or a date string (see [Normalize]).
func (c *Calendar) HolidayName(ctx context.Context, date any) (string, error) {
	_, name, err := c.lookup(ctx, date)
	return name, err
}

// IsHoliday reports whether the given date is a national holiday,
// along with its name and the normalized date that was looked up.
func (c *Calendar) IsHoliday(ctx context.Context, date any) (HolidayResult, error) {
	day, name, err := c.lookup(ctx, date)
	if err != nil {
		return HolidayResult{}, err
	}
	return HolidayResult{IsHoliday: name != "", Name: name, Date: day}, nil
}

// HolidaysBetween returns all holidays in the range [from, to]
// inclusive, in ascending date order. If from is after to, the result
// is empty — reversed ranges are not swapped.
func (c *Calendar) HolidaysBetween(ctx context.Context, from, to any) ([]Holiday, error) {
	fromD, err := Normalize(from)
	if err != nil {
		return nil, err
	}
	toD, err := Normalize(to)
	if err != nil {
		return nil, err
	}
	if toD.Before(fromD) {
		return nil, nil
	}

	table, err := c.freshTable(ctx)
	if err != nil {
		return nil, err
	}

	var result []Holiday
	for cur := fromD; !cur.After(toD); cur = cur.AddDate(0, 0, 1) {
		if name, ok := table[dateKey(cur)]; ok {
			result = append(result, Holiday{Date: cur, Name: name})
		}
	}
	return result, nil
}

// --- Package-level convenience functions ---

// HolidayName returns the holiday name for the given date, or "".
func HolidayName(ctx context.Context, date any) (string, error) {
	return defaultCal.HolidayName(ctx, date)
}

// IsHoliday reports whether the given date is a national holiday.
func IsHoliday(ctx context.Context, date any) (HolidayResult, error) {
	return defaultCal.IsHoliday(ctx, date)
}

// HolidaysBetween returns all holidays in the range [from, to] inclusive.
func HolidaysBetween(ctx context.Context, from, to any) ([]Holiday, error) {
	return defaultCal.HolidaysBetween(ctx, from, to)
}

// Refresh forces a repopulation of the package-level calendar.
func Refresh(ctx context.Context) error { return defaultCal.Refresh(ctx) }

// LastFetchedAt returns the last successful population time of the
// package-level calendar.
func LastFetchedAt() (time.Time, bool) { return defaultCal.LastFetchedAt() }

// CachedHolidays returns the package-level calendar's cached holidays.
func CachedHolidays() []Holiday { return defaultCal.CachedHolidays() }
