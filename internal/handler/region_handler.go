package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paralympics-api/internal/schema"
	"paralympics-api/pkg/model"
)

// RegionStore defines the store operations used by the region routes
type RegionStore interface {
	ListRegions(ctx context.Context) ([]model.Region, error)
	GetRegion(ctx context.Context, noc string) (*model.Region, error)
	AddRegion(ctx context.Context, region model.Region) error
}

// RegionHandler handles region-related HTTP requests
type RegionHandler struct {
	regions RegionStore
	logger  *zap.Logger
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regions RegionStore, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regions: regions,
		logger:  logger,
	}
}

// GetRegions handles GET /regions
func (h *RegionHandler) GetRegions(c *gin.Context) {
	regions, err := h.regions.ListRegions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, errorMessages{})
		return
	}

	c.JSON(http.StatusOK, schema.DumpRegions(regions))
}

// GetRegion handles GET /regions/:code
func (h *RegionHandler) GetRegion(c *gin.Context) {
	code := c.Param("code")

	region, err := h.regions.GetRegion(c.Request.Context(), code)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{
			notFound: fmt.Sprintf("Region with NOC %s not found", code),
		})
		return
	}

	c.JSON(http.StatusOK, region)
}

// AddRegion handles POST /regions
func (h *RegionHandler) AddRegion(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	region, err := schema.LoadRegion(body)
	if err != nil {
		respondError(c, h.logger, err, errorMessages{})
		return
	}

	if err := h.regions.AddRegion(c.Request.Context(), region); err != nil {
		respondError(c, h.logger, err, errorMessages{
			duplicate: fmt.Sprintf("Region with NOC %s already exists", region.NOC),
		})
		return
	}

	h.logger.Info("region added", zap.String("noc", region.NOC))

	c.JSON(http.StatusCreated, model.RegionAddResponse{
		Message: "Region added with NOC= " + region.NOC,
		NOC:     region.NOC,
	})
}
