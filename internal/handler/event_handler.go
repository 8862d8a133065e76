package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paralympics-api/internal/schema"
	"paralympics-api/pkg/model"
)

// EventStore defines the store operations used by the event routes
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, eventID int) (*model.Event, error)
	AddEvent(ctx context.Context, event model.Event) (int, error)
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	events EventStore
	logger *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events EventStore, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		logger: logger,
	}
}

// GetEvents handles GET /events
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, errorMessages{})
		return
	}

	c.JSON(http.StatusOK, schema.DumpEvents(events))
}

// GetEvent handles GET /events/:event_id
func (h *EventHandler) GetEvent(c *gin.Context) {
	raw := c.Param("event_id")
	notFound := fmt.Sprintf("Event with id %s not found", raw)

	// A non-numeric id cannot match any row
	eventID, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{notFound: notFound})
		return
	}

	c.JSON(http.StatusOK, event)
}

// AddEvent handles POST /events
func (h *EventHandler) AddEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := schema.LoadEvent(body)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{})
		return
	}

	eventID, err := h.events.AddEvent(c.Request.Context(), event)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			reference: fmt.Sprintf("Region with NOC %s does not exist", event.NOC),
		})
		return
	}

	h.logger.Info("event added", zap.Int("id", eventID), zap.String("noc", event.NOC))

	c.JSON(http.StatusCreated, model.EventAddResponse{
		Message: fmt.Sprintf("Event added with id= %d", eventID),
		ID:      eventID,
	})
}
