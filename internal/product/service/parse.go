package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agridirect/marketplace/internal/product/domain"
	"github.com/shopspring/decimal"
)

type bounds struct {
	min, max float64
	hasMax   bool
}

var (
	nonNegative = bounds{min: 0}
	percentage  = bounds{min: 0, max: 100, hasMax: true}
	phScale     = bounds{min: 0, max: 14, hasMax: true}
)

func parseNumber(field, raw string, b bounds) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidNumeric, field)
	}
	if v < b.min {
		return 0, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidNumeric, field)
	}
	if b.hasMax && v > b.max {
		return 0, fmt.Errorf("%w: %s must be between %s and %s", domain.ErrInvalidNumeric, field,
			strconv.FormatFloat(b.min, 'f', -1, 64), strconv.FormatFloat(b.max, 'f', -1, 64))
	}
	return v, nil
}

// parseOptional returns nil for blank input.
func parseOptional(field, raw string, b bounds) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := parseNumber(field, raw, b)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price must be a number", domain.ErrInvalidNumeric)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidNumeric)
	}
	return v.Round(2), nil
}

func parseHarvestDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.HarvestDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: harvestDate must use YYYY-MM-DD", domain.ErrValidation)
	}
	return &t, nil
}
