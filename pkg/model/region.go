package model

// Region represents a National Olympic Committee region
type Region struct {
	NOC    string  `db:"noc" json:"NOC"`
	Region string  `db:"region" json:"region"`
	Notes  *string `db:"notes" json:"notes"`
}

// RegionAddRequest represents the request to add a new region
type RegionAddRequest struct {
	NOC    string  `json:"NOC" validate:"required"`
	Region string  `json:"region" validate:"required"`
	Notes  *string `json:"notes"`
}

// RegionAddResponse is returned after a region has been stored
type RegionAddResponse struct {
	Message string `json:"message"`
	NOC     string `json:"NOC"`
}
