// Package seed loads the region and event tables from CSV exports of the
// paralympics dataset.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"paralympics-api/internal/schema"
	"paralympics-api/internal/store"
	"paralympics-api/pkg/model"
)

// RegionWriter is the store operation used to load regions
type RegionWriter interface {
	AddRegion(ctx context.Context, region model.Region) error
}

// EventWriter is the store operation used to load events
type EventWriter interface {
	AddEvent(ctx context.Context, event model.Event) (int, error)
}

// Result summarises one load
type Result struct {
	Added   int
	Skipped int
}

// Loader inserts CSV rows through the store services
type Loader struct {
	regions RegionWriter
	events  EventWriter
	logger  *zap.Logger
}

// NewLoader creates a new loader
func NewLoader(regions RegionWriter, events EventWriter, logger *zap.Logger) *Loader {
	return &Loader{
		regions: regions,
		events:  events,
		logger:  logger,
	}
}

// LoadRegions reads a CSV with the columns NOC, region and notes.
// Regions that already exist are skipped.
func (l *Loader) LoadRegions(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	err := readRows(r, []string{"NOC", "region"}, func(line int, rec row) error {
		req := model.RegionAddRequest{
			NOC:    rec.str("NOC"),
			Region: rec.str("region"),
			Notes:  rec.optStr("notes"),
		}
		if err := schema.Validate(req); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		err := l.regions.AddRegion(ctx, schema.NewRegion(req))
		if errors.Is(err, store.ErrDuplicate) {
			l.logger.Debug("region already present", zap.String("noc", req.NOC))
			res.Skipped++
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		res.Added++
		return nil
	})
	return res, err
}

// LoadEvents reads a CSV in the layout of the paralympics events export.
// Rows whose region does not exist are skipped with a warning.
func (l *Loader) LoadEvents(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	err := readRows(r, []string{"NOC", "type", "year"}, func(line int, rec row) error {
		req, err := eventRequest(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := schema.Validate(req); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		_, err = l.events.AddEvent(ctx, schema.NewEvent(req))
		if errors.Is(err, store.ErrMissingReference) {
			l.logger.Warn("skipping event for unknown region",
				zap.Int("line", line),
				zap.String("noc", req.NOC),
			)
			res.Skipped++
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		res.Added++
		return nil
	})
	return res, err
}

func eventRequest(r row) (model.EventAddRequest, error) {
	var firstErr error
	optInt := func(name string) *int {
		v, err := r.optInt(name)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}

	req := model.EventAddRequest{
		NOC:                  r.str("NOC"),
		Type:                 r.str("type"),
		Country:              r.optStr("country"),
		Host:                 r.optStr("host"),
		Start:                r.optStr("start"),
		End:                  r.optStr("end"),
		Duration:             optInt("duration"),
		DisabilitiesIncluded: r.optStr("disabilities_included"),
		Countries:            optInt("countries"),
		Events:               optInt("events"),
		Sports:               optInt("sports"),
		ParticipantsM:        optInt("participants_m"),
		ParticipantsF:        optInt("participants_f"),
		Participants:         optInt("participants"),
		Highlights:           r.optStr("highlights"),
		URL:                  r.optStr("URL"),
	}
	if year := optInt("year"); year != nil {
		req.Year = *year
	}
	return req, firstErr
}

// row gives access to one CSV record by header name
type row struct {
	index  map[string]int
	record []string
}

func (r row) str(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r row) optStr(name string) *string {
	v := r.str(name)
	if v == "" {
		return nil
	}
	return &v
}

func (r row) optInt(name string) (*int, error) {
	v := strings.ReplaceAll(r.str(name), ",", "")
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("column %s: %q is not an integer", name, v)
	}
	return &n, nil
}

// readRows calls fn for every data record with the line it starts on
func readRows(r io.Reader, required []string, fn func(line int, r row) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		// Spreadsheet exports often start with a byte order mark
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		index[name] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := reader.FieldPos(0)
		if err := fn(line, row{index: index, record: record}); err != nil {
			return err
		}
	}
}
