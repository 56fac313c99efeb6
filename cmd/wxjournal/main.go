package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"wxdisplay/internal/config"
	"wxdisplay/internal/journal"
	"wxdisplay/internal/logging"
)

var version = "dev"
var appName = "wxjournal"

const usage = `usage: %s <command>
  migrate     apply pending journal migrations
  recent [n]  print the n most recent fetch cycles (default 10)
`

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, version, appName))

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if cfg.JournalPath == "" {
		fmt.Fprintln(os.Stderr, "JOURNAL_PATH is not set")
		os.Exit(1)
	}

	db, err := journal.Open(cfg.JournalPath, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal open: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := journal.Close(db); closeErr != nil {
			slog.Error("journal close", "err", closeErr)
		}
	}()

	ctx := context.Background()
	switch os.Args[1] {
	case "migrate":
		if err := journal.Migrate(ctx, db); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")
	case "recent":
		n := 10
		if len(os.Args) > 2 {
			n, err = strconv.Atoi(os.Args[2])
			if err != nil || n <= 0 {
				fmt.Fprintf(os.Stderr, "invalid count %q\n", os.Args[2])
				os.Exit(1)
			}
		}
		entries, err := journal.NewRepository(db).Recent(ctx, n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recent: %v\n", err)
			os.Exit(1)
		}
		if err := printEntries(os.Stdout, entries); err != nil {
			fmt.Fprintf(os.Stderr, "recent: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func printEntries(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATION\tOUTCOME\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.At.Local().Format(time.DateTime), e.StationID, e.Outcome, detail(e))
	}
	return tw.Flush()
}

func detail(e journal.Entry) string {
	if e.Reading != nil {
		r := e.Reading
		return fmt.Sprintf("%.1fC %.0f%% %.1fm/s %s (%s)", r.TemperatureC, r.HumidityPct, r.WindSpeedMPS(), r.WindCompass(), r.Updated)
	}
	return e.ErrorKind + ": " + e.ErrorDetail
}
