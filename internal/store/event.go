package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"paralympics-api/pkg/model"
)

const eventColumns = `event_id, noc, type, year, country, host, start_date, end_date,
	duration, disabilities_included, countries, events, sports,
	participants_m, participants_f, participants, highlights, url`

// EventService handles event persistence
type EventService struct {
	db *sqlx.DB
}

// NewEventService creates a new event service
func NewEventService(db *sqlx.DB) *EventService {
	return &EventService{db: db}
}

// ListEvents returns every event in the store's scan order
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM event`)
	if err != nil {
		return nil, failed(fmt.Errorf("listing events: %w", err))
	}
	return events, nil
}

// GetEvent looks up a single event by its identifier
func (s *EventService) GetEvent(ctx context.Context, eventID int) (*model.Event, error) {
	var events []model.Event
	err := s.db.SelectContext(ctx, &events,
		s.db.Rebind(`SELECT `+eventColumns+` FROM event WHERE event_id = ?`), eventID)
	if err != nil {
		return nil, failed(fmt.Errorf("fetching event %d: %w", eventID, err))
	}

	switch len(events) {
	case 0:
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	case 1:
		return &events[0], nil
	default:
		return nil, failed(fmt.Errorf("event %d matched %d rows: %w", eventID, len(events), ErrIntegrity))
	}
}

// AddEvent inserts a new event and returns the identifier assigned by the store
func (s *EventService) AddEvent(ctx context.Context, event model.Event) (int, error) {
	query, args, err := sqlx.Named(`
        INSERT INTO event (noc, type, year, country, host, start_date, end_date,
            duration, disabilities_included, countries, events, sports,
            participants_m, participants_f, participants, highlights, url)
        VALUES (:noc, :type, :year, :country, :host, :start_date, :end_date,
            :duration, :disabilities_included, :countries, :events, :sports,
            :participants_m, :participants_f, :participants, :highlights, :url)
        RETURNING event_id
    `, event)
	if err != nil {
		return 0, err
	}

	var eventID int
	err = s.db.QueryRowxContext(ctx, s.db.Rebind(query), args...).Scan(&eventID)
	if err != nil {
		return 0, failed(fmt.Errorf("adding event for %s: %w", event.NOC, classify(err)))
	}
	return eventID, nil
}
