package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"wxdisplay/internal/weather"
)

//go:embed queries/insert-entry.sql
var insertEntrySQL string

//go:embed queries/get-recent.sql
var getRecentSQL string

const tsLayout = "2006-01-02T15:04:05.000Z"

type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeConnectFailed Outcome = "connect_failed"
	OutcomeFetchFailed   Outcome = "fetch_failed"
)

// Entry is one fetch cycle. Reading is set only for OutcomeOK.
type Entry struct {
	ID          string
	StationID   string
	At          time.Time
	Outcome     Outcome
	ErrorKind   string
	ErrorDetail string
	Reading     *weather.Reading
}

type Repository interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Record(ctx context.Context, e Entry) error {
	var (
		temp, feels, hum, press, wind, dir, cloud, precip *float64
		updated                                           *string
	)
	if rd := e.Reading; rd != nil {
		temp, feels, hum, press = &rd.TemperatureC, &rd.FeelsLikeC, &rd.HumidityPct, &rd.PressureHPa
		wind, dir, cloud, precip = &rd.WindSpeedKPH, &rd.WindDirectionDeg, &rd.CloudCoverPct, &rd.PrecipitationMM
		updated = &rd.Updated
	}

	_, err := r.db.ExecContext(ctx, insertEntrySQL,
		e.ID, e.StationID, e.At.UTC().Format(tsLayout), string(e.Outcome),
		nullString(e.ErrorKind), nullString(e.ErrorDetail),
		temp, feels, hum, press, wind, dir, cloud, precip, updated,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry %s: %w", e.ID, err)
	}
	return nil
}

func (r *repositoryImpl) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, getRecentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close journal rows", "error", err)
		}
	}()

	var out []Entry
	for rows.Next() {
		var (
			e                                                 Entry
			ts, outcome                                       string
			errKind, errDetail, updated                       sql.NullString
			temp, feels, hum, press, wind, dir, cloud, precip sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.StationID, &ts, &outcome, &errKind, &errDetail,
			&temp, &feels, &hum, &press, &wind, &dir, &cloud, &precip, &updated); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		at, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse ts %q: %w", ts, err)
		}
		e.At = at
		e.Outcome = Outcome(outcome)
		e.ErrorKind = errKind.String
		e.ErrorDetail = errDetail.String
		if temp.Valid {
			e.Reading = &weather.Reading{
				TemperatureC:     temp.Float64,
				FeelsLikeC:       feels.Float64,
				HumidityPct:      hum.Float64,
				PressureHPa:      press.Float64,
				WindSpeedKPH:     wind.Float64,
				WindDirectionDeg: dir.Float64,
				CloudCoverPct:    cloud.Float64,
				PrecipitationMM:  precip.Float64,
				Updated:          updated.String,
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Nop discards entries. It stands in when no journal path is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
