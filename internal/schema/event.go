package schema

import "paralympics-api/pkg/model"

// DecodeEvent parses and validates an event creation body
func DecodeEvent(body []byte) (model.EventAddRequest, error) {
	var req model.EventAddRequest
	if err := decode(body, &req); err != nil {
		return model.EventAddRequest{}, err
	}
	return req, nil
}

// NewEvent builds an event from a validated request. The ID stays zero until
// the store assigns one.
func NewEvent(req model.EventAddRequest) model.Event {
	return model.Event{
		NOC:                  req.NOC,
		Type:                 req.Type,
		Year:                 req.Year,
		Country:              req.Country,
		Host:                 req.Host,
		Start:                req.Start,
		End:                  req.End,
		Duration:             req.Duration,
		DisabilitiesIncluded: req.DisabilitiesIncluded,
		Countries:            req.Countries,
		Events:               req.Events,
		Sports:               req.Sports,
		ParticipantsM:        req.ParticipantsM,
		ParticipantsF:        req.ParticipantsF,
		Participants:         req.Participants,
		Highlights:           req.Highlights,
		URL:                  req.URL,
	}
}

// LoadEvent decodes a request body into a new event
func LoadEvent(body []byte) (model.Event, error) {
	req, err := DecodeEvent(body)
	if err != nil {
		return model.Event{}, err
	}
	return NewEvent(req), nil
}

// DumpEvents returns the collection in store order, never nil
func DumpEvents(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
