package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paralympics-api/internal/metrics"
	"paralympics-api/pkg/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpen_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	for _, stmt := range schemas[DriverSQLite] {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"file:paralympics.db", "file:paralympics.db?_pragma=foreign_keys(1)"},
		{"file:paralympics.db?_pragma=busy_timeout(5000)", "file:paralympics.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"file:paralympics.db?_pragma=foreign_keys(1)", "file:paralympics.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}

func TestOpen_ForeignKeysSurviveReconnect(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "paralympics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// No idle connections means every statement below runs on a fresh one
	db.SetMaxIdleConns(0)

	for i := 0; i < 3; i++ {
		var enabled int
		require.NoError(t, db.GetContext(ctx, &enabled, "PRAGMA foreign_keys"))
		assert.Equal(t, 1, enabled)
	}

	_, err = NewEventService(db).AddEvent(ctx, model.Event{NOC: "XXX", Type: "summer", Year: 2012})
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestRegionService_AddAndGet(t *testing.T) {
	ctx := context.Background()
	svc := NewRegionService(newTestDB(t))

	want := model.Region{NOC: "GBR", Region: "Great Britain", Notes: strPtr("Includes Northern Ireland")}
	require.NoError(t, svc.AddRegion(ctx, want))

	got, err := svc.GetRegion(ctx, "GBR")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestRegionService_AddWithoutNotes(t *testing.T) {
	ctx := context.Background()
	svc := NewRegionService(newTestDB(t))

	require.NoError(t, svc.AddRegion(ctx, model.Region{NOC: "FRA", Region: "France"}))

	got, err := svc.GetRegion(ctx, "FRA")
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
}

func TestRegionService_GetMissing(t *testing.T) {
	svc := NewRegionService(newTestDB(t))

	got, err := svc.GetRegion(context.Background(), "XXX")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegionService_DuplicateLeavesOriginal(t *testing.T) {
	ctx := context.Background()
	svc := NewRegionService(newTestDB(t))

	original := model.Region{NOC: "GBR", Region: "Great Britain"}
	require.NoError(t, svc.AddRegion(ctx, original))

	err := svc.AddRegion(ctx, model.Region{NOC: "GBR", Region: "Somewhere else"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := svc.GetRegion(ctx, "GBR")
	require.NoError(t, err)
	assert.Equal(t, original, *got)
}

func TestRegionService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewRegionService(newTestDB(t))

	regions, err := svc.ListRegions(ctx)
	require.NoError(t, err)
	assert.Empty(t, regions)

	codes := []string{"GBR", "FRA", "JPN", "BRA"}
	for _, code := range codes {
		require.NoError(t, svc.AddRegion(ctx, model.Region{NOC: code, Region: "Region " + code}))
	}

	regions, err = svc.ListRegions(ctx)
	require.NoError(t, err)
	got := make([]string, 0, len(regions))
	for _, r := range regions {
		got = append(got, r.NOC)
	}
	assert.ElementsMatch(t, codes, got)
}

func TestRegionService_GetMultipleRowsIsIntegrityError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	// Rebuild the table without its primary key so duplicates can exist
	for _, stmt := range []string{
		`DROP TABLE event`,
		`DROP TABLE region`,
		`CREATE TABLE region (noc TEXT, region TEXT NOT NULL, notes TEXT)`,
		`INSERT INTO region (noc, region) VALUES ('GBR', 'Great Britain'), ('GBR', 'United Kingdom')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	before := testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("integrity"))

	got, err := NewRegionService(db).GetRegion(ctx, "GBR")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("integrity")))
}

func TestEventService_AddAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, NewRegionService(db).AddRegion(ctx, model.Region{NOC: "GBR", Region: "Great Britain"}))
	svc := NewEventService(db)

	event := model.Event{
		NOC:           "GBR",
		Type:          "summer",
		Year:          2012,
		Country:       strPtr("UK"),
		Host:          strPtr("London"),
		Start:         strPtr("29/08/2012"),
		End:           strPtr("09/09/2012"),
		Duration:      intPtr(11),
		Countries:     intPtr(164),
		Events:        intPtr(503),
		Sports:        intPtr(20),
		ParticipantsM: intPtr(2736),
		ParticipantsF: intPtr(1501),
		Participants:  intPtr(4237),
		URL:           strPtr("https://www.paralympic.org/london-2012"),
	}

	id, err := svc.AddEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	got, err := svc.GetEvent(ctx, id)
	require.NoError(t, err)

	event.ID = id
	assert.Equal(t, event, *got)
}

func TestEventService_IdentifiersAreAssigned(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, NewRegionService(db).AddRegion(ctx, model.Region{NOC: "GBR", Region: "Great Britain"}))
	svc := NewEventService(db)

	seen := map[int]bool{}
	for year := 2000; year < 2005; year++ {
		id, err := svc.AddEvent(ctx, model.Event{NOC: "GBR", Type: "summer", Year: year})
		require.NoError(t, err)
		assert.False(t, seen[id], "identifier %d assigned twice", id)
		seen[id] = true
	}

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 5)
	for _, e := range events {
		assert.True(t, seen[e.ID])
	}
}

func TestEventService_MissingRegion(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(newTestDB(t))

	_, err := svc.AddEvent(ctx, model.Event{NOC: "XXX", Type: "summer", Year: 2012})
	assert.ErrorIs(t, err, ErrMissingReference)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventService_GetMultipleRowsIsIntegrityError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	for _, stmt := range []string{
		`DROP TABLE event`,
		`CREATE TABLE event (
			event_id INTEGER, noc TEXT, type TEXT, year INTEGER, country TEXT, host TEXT,
			start_date TEXT, end_date TEXT, duration INTEGER, disabilities_included TEXT,
			countries INTEGER, events INTEGER, sports INTEGER, participants_m INTEGER,
			participants_f INTEGER, participants INTEGER, highlights TEXT, url TEXT
		)`,
		`INSERT INTO event (event_id, noc, type, year) VALUES (1, 'GBR', 'summer', 2012), (1, 'GBR', 'winter', 2014)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	before := testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("integrity"))

	got, err := NewEventService(db).GetEvent(ctx, 1)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("integrity")))
}

func TestStoreErrorsAreCounted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	regions := NewRegionService(db)
	require.NoError(t, regions.AddRegion(ctx, model.Region{NOC: "GBR", Region: "Great Britain"}))

	counter := func(kind string) float64 {
		return testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues(kind))
	}
	duplicates, references := counter("duplicate"), counter("missing_reference")

	assert.ErrorIs(t, regions.AddRegion(ctx, model.Region{NOC: "GBR", Region: "Great Britain"}), ErrDuplicate)
	_, err := NewEventService(db).AddEvent(ctx, model.Event{NOC: "XXX", Type: "summer", Year: 2012})
	assert.ErrorIs(t, err, ErrMissingReference)

	assert.Equal(t, duplicates+1, counter("duplicate"))
	assert.Equal(t, references+1, counter("missing_reference"))

	// A lookup miss is an answer, not a failure
	notFound := counter("other")
	_, err = regions.GetRegion(ctx, "XXX")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, notFound, counter("other"))
}

func TestEventService_GetMissing(t *testing.T) {
	svc := NewEventService(newTestDB(t))

	got, err := svc.GetEvent(context.Background(), 9999)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClassify(t *testing.T) {
	generic := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"pq unique", &pq.Error{Code: "23505"}, ErrDuplicate},
		{"pq foreign key", &pq.Error{Code: "23503"}, ErrMissingReference},
		{"pq wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), ErrDuplicate},
		{"pq other", &pq.Error{Code: "42P01"}, nil},
		{"sqlite unique message", errors.New("constraint failed: UNIQUE constraint failed: region.noc (2067)"), ErrDuplicate},
		{"sqlite foreign key message", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), ErrMissingReference},
		{"unrelated", generic, generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.Same(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}
