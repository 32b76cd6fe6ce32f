package syukujitsu

import (
	"context"
	"time"
)

// HolidaysInYear returns all holidays in the given year, sorted by date.
func (c *Calendar) HolidaysInYear(ctx context.Context, year int) ([]Holiday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return c.HolidaysBetween(ctx, from, to)
}

// HolidaysInMonth returns all holidays in the given year and month,
// sorted by date.
func (c *Calendar) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC) // day 0 = last day of month
	return c.HolidaysBetween(ctx, from, to)
}

// NextHoliday returns the next holiday strictly after the given date.
// The second return is false if no later holiday exists in the table.
func (c *Calendar) NextHoliday(ctx context.Context, t time.Time) (Holiday, bool, error) {
	day, err := Normalize(t)
	if err != nil {
		return Holiday{}, false, err
	}
	table, err := c.freshTable(ctx)
	if err != nil {
		return Holiday{}, false, err
	}

	var best Holiday
	found := false
	for key, name := range table {
		hd, err := time.Parse(dateKeyLayout, key)
		if err != nil {
			continue
		}
		if hd.After(day) && (!found || hd.Before(best.Date)) {
			best = Holiday{Date: hd, Name: name}
			found = true
		}
	}
	return best, found, nil
}

// PreviousHoliday returns the most recent holiday strictly before the
// given date. The second return is false if no earlier holiday exists
// in the table.
func (c *Calendar) PreviousHoliday(ctx context.Context, t time.Time) (Holiday, bool, error) {
	day, err := Normalize(t)
	if err != nil {
		return Holiday{}, false, err
	}
	table, err := c.freshTable(ctx)
	if err != nil {
		return Holiday{}, false, err
	}

	var best Holiday
	found := false
	for key, name := range table {
		hd, err := time.Parse(dateKeyLayout, key)
		if err != nil {
			continue
		}
		if hd.Before(day) && (!found || hd.After(best.Date)) {
			best = Holiday{Date: hd, Name: name}
			found = true
		}
	}
	return best, found, nil
}

// IsBusinessDay reports whether the given date is a business day
// (neither a weekend nor a holiday). The date is interpreted in JST.
func (c *Calendar) IsBusinessDay(ctx context.Context, t time.Time) (bool, error) {
	wd := t.In(jstZone).Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false, nil
	}
	name, err := c.HolidayName(ctx, t)
	if err != nil {
		return false, err
	}
	return name == "", nil
}

// NextBusinessDay returns the next business day on or after the given
// date. If t itself is a business day, it returns t (normalized to
// midnight UTC). Returns the zero time if no business day is found
// within 366 days.
func (c *Calendar) NextBusinessDay(ctx context.Context, t time.Time) (time.Time, error) {
	cur, err := Normalize(t)
	if err != nil {
		return time.Time{}, err
	}
	for i := 0; i < 366; i++ {
		ok, err := c.IsBusinessDay(ctx, cur)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return cur, nil
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return time.Time{}, nil
}

// PreviousBusinessDay returns the most recent business day on or
// before the given date. If t itself is a business day, it returns t
// (normalized to midnight UTC). Returns the zero time if no business
// day is found within 366 days.
func (c *Calendar) PreviousBusinessDay(ctx context.Context, t time.Time) (time.Time, error) {
	cur, err := Normalize(t)
	if err != nil {
		return time.Time{}, err
	}
	for i := 0; i < 366; i++ {
		ok, err := c.IsBusinessDay(ctx, cur)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return cur, nil
		}
		cur = cur.AddDate(0, 0, -1)
	}
	return time.Time{}, nil
}

// BusinessDaysBetween returns the count of business days in the range
// [from, to] inclusive. If from is after to, returns 0.
func (c *Calendar) BusinessDaysBetween(ctx context.Context, from, to time.Time) (int, error) {
	fromD, err := Normalize(from)
	if err != nil {
		return 0, err
	}
	toD, err := Normalize(to)
	if err != nil {
		return 0, err
	}

	count := 0
	for cur := fromD; !cur.After(toD); cur = cur.AddDate(0, 0, 1) {
		ok, err := c.IsBusinessDay(ctx, cur)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// --- Package-level convenience functions ---

// HolidaysInYear returns all holidays in the given year, sorted by date.
func HolidaysInYear(ctx context.Context, year int) ([]Holiday, error) {
	return defaultCal.HolidaysInYear(ctx, year)
}

// HolidaysInMonth returns all holidays in the given year and month.
func HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	return defaultCal.HolidaysInMonth(ctx, year, month)
}

// NextHoliday returns the next holiday strictly after the given date.
func NextHoliday(ctx context.Context, t time.Time) (Holiday, bool, error) {
	return defaultCal.NextHoliday(ctx, t)
}

// PreviousHoliday returns the most recent holiday strictly before the given date.
func PreviousHoliday(ctx context.Context, t time.Time) (Holiday, bool, error) {
	return defaultCal.PreviousHoliday(ctx, t)
}

// IsBusinessDay reports whether the given date is a business day.
func IsBusinessDay(ctx context.Context, t time.Time) (bool, error) {
	return defaultCal.IsBusinessDay(ctx, t)
}

// NextBusinessDay returns the next business day on or after the given date.
func NextBusinessDay(ctx context.Context, t time.Time) (time.Time, error) {
	return defaultCal.NextBusinessDay(ctx, t)
}

// PreviousBusinessDay returns the most recent business day on or before the given date.
func PreviousBusinessDay(ctx context.Context, t time.Time) (time.Time, error) {
	return defaultCal.PreviousBusinessDay(ctx, t)
}

// BusinessDaysBetween returns the count of business days in the range [from, to].
func BusinessDaysBetween(ctx context.Context, from, to time.Time) (int, error) {
	return defaultCal.BusinessDaysBetween(ctx, from, to)
}
