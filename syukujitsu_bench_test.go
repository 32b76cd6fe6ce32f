package syukujitsu

import (
	"context"
	"testing"
	"time"
)

func benchCalendar(b *testing.B) *Calendar {
	b.Helper()
	cal := New(WithSource(StaticSource(testCSV)))
	if err := cal.Refresh(context.Background()); err != nil {
		b.Fatalf("populating calendar: %v", err)
	}
	return cal
}

func BenchmarkHolidayName(b *testing.B) {
	cal := benchCalendar(b)
	ctx := context.Background()
	day := d(2024, time.January, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cal.HolidayName(ctx, day); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHolidayName_StringInput(b *testing.B) {
	cal := benchCalendar(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cal.HolidayName(ctx, "2024-01-01"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIsHoliday(b *testing.B) {
	cal := benchCalendar(b)
	ctx := context.Background()
	day := d(2024, time.June, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cal.IsHoliday(ctx, day); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHolidaysBetween_Year(b *testing.B) {
	cal := benchCalendar(b)
	ctx := context.Background()
	from, to := d(2024, time.January, 1), d(2024, time.December, 31)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cal.HolidaysBetween(ctx, from, to); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseTable(b *testing.B) {
	data := []byte(testCSV)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		parseTable(data)
	}
}
