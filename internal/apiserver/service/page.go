package service

import (
	"math"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/i18n"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// NewPage checks limit and offset bounds
func NewPage(limit, offset int) (database.Page, error) {
	if limit < 1 || limit > MaxLimit {
		return database.Page{}, i18n.ErrInvalidRange.
			WithParam("Field", "limit").WithParam("Min", 1).WithParam("Max", MaxLimit)
	}
	if offset < 0 {
		return database.Page{}, i18n.ErrInvalidOffset
	}
	return database.Page{Limit: limit, Offset: offset}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
