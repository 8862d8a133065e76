package model

// Event represents a single Paralympic Games edition hosted by a region
type Event struct {
	ID                   int     `db:"event_id" json:"id"`
	NOC                  string  `db:"noc" json:"NOC"`
	Type                 string  `db:"type" json:"type"`
	Year                 int     `db:"year" json:"year"`
	Country              *string `db:"country" json:"country"`
	Host                 *string `db:"host" json:"host"`
	Start                *string `db:"start_date" json:"start"`
	End                  *string `db:"end_date" json:"end"`
	Duration             *int    `db:"duration" json:"duration"`
	DisabilitiesIncluded *string `db:"disabilities_included" json:"disabilities_included"`
	Countries            *int    `db:"countries" json:"countries"`
	Events               *int    `db:"events" json:"events"`
	Sports               *int    `db:"sports" json:"sports"`
	ParticipantsM        *int    `db:"participants_m" json:"participants_m"`
	ParticipantsF        *int    `db:"participants_f" json:"participants_f"`
	Participants         *int    `db:"participants" json:"participants"`
	Highlights           *string `db:"highlights" json:"highlights"`
	URL                  *string `db:"url" json:"URL"`
}

// EventAddRequest represents the request to add a new event.
// The identifier is assigned by the store, so it is not accepted here.
type EventAddRequest struct {
	NOC                  string  `json:"NOC" validate:"required"`
	Type                 string  `json:"type" validate:"required"`
	Year                 int     `json:"year" validate:"required"`
	Country              *string `json:"country"`
	Host                 *string `json:"host"`
	Start                *string `json:"start"`
	End                  *string `json:"end"`
	Duration             *int    `json:"duration"`
	DisabilitiesIncluded *string `json:"disabilities_included"`
	Countries            *int    `json:"countries"`
	Events               *int    `json:"events"`
	Sports               *int    `json:"sports"`
	ParticipantsM        *int    `json:"participants_m"`
	ParticipantsF        *int    `json:"participants_f"`
	Participants         *int    `json:"participants"`
	Highlights           *string `json:"highlights"`
	URL                  *string `json:"URL"`
}

// EventAddResponse is returned after an event has been stored
type EventAddResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}
