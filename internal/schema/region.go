package schema

import "paralympics-api/pkg/model"

// DecodeRegion parses and validates a region creation body
func DecodeRegion(body []byte) (model.RegionAddRequest, error) {
	var req model.RegionAddRequest
	if err := decode(body, &req); err != nil {
		return model.RegionAddRequest{}, err
	}
	return req, nil
}

// NewRegion builds a region from a validated request. The NOC code is used
// exactly as submitted.
func NewRegion(req model.RegionAddRequest) model.Region {
	return model.Region{
		NOC:    req.NOC,
		Region: req.Region,
		Notes:  req.Notes,
	}
}

// LoadRegion decodes a request body into a new region
func LoadRegion(body []byte) (model.Region, error) {
	req, err := DecodeRegion(body)
	if err != nil {
		return model.Region{}, err
	}
	return NewRegion(req), nil
}

// DumpRegions returns the collection in store order, never nil
func DumpRegions(regions []model.Region) []model.Region {
	if regions == nil {
		return []model.Region{}
	}
	return regions
}
