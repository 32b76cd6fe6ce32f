// Command syukujitsu looks up Japanese national holidays from the
// terminal, downloading the Cabinet Office CSV on demand.
//
// Usage:
//
//	syukujitsu                              # look up today
//	syukujitsu -date 2024-01-01             # look up one date
//	syukujitsu -from 2024-04-29 -to 2024-05-06
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"

	syukujitsu "github.com/rabitt1ove/syukujitsu"
)

func main() {
	date := flag.String("date", "", "date to look up (default today, JST)")
	from := flag.String("from", "", "range start; requires -to")
	to := flag.String("to", "", "range end; requires -from")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("syukujitsu: ")

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	source := syukujitsu.NewCabinetOfficeSource(syukujitsu.WithSourceLogger(logger))
	cal := syukujitsu.New(
		syukujitsu.WithSource(source),
		syukujitsu.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if (*from == "") != (*to == "") {
		log.Fatal("-from and -to must be used together")
	}

	if *from != "" {
		holidays, err := cal.HolidaysBetween(ctx, *from, *to)
		if err != nil {
			log.Fatalf("listing holidays: %v", err)
		}
		for _, h := range holidays {
			fmt.Printf("%s\t%s\n", h.Date.Format("2006-01-02"), h.Name)
		}
		return
	}

	var input any = time.Now()
	if *date != "" {
		input = *date
	}

	res, err := cal.IsHoliday(ctx, input)
	if err != nil {
		log.Fatalf("looking up holiday: %v", err)
	}
	if res.IsHoliday {
		fmt.Printf("%s\t%s\n", res.Date.Format("2006-01-02"), res.Name)
	} else {
		fmt.Printf("%s\tnot a holiday\n", res.Date.Format("2006-01-02"))
	}
}
