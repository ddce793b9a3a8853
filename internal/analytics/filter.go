package analytics

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"order-catalog-service/internal/domain"
)

// localTimestampLayout is a timestamp without a zone; it is read as UTC.
const localTimestampLayout = "2006-01-02T15:04:05"

// ParseFilter builds a SalesFilter from raw request values. Each id list may hold
// repeated values, comma separated values or both. Dates accept YYYY-MM-DD read as
// UTC midnight, an RFC 3339 timestamp, or a timestamp without a zone read as UTC.
// Empty values leave the bound open.
func ParseFilter(categoryIDs, productIDs []string, startDate, endDate string) (domain.SalesFilter, error) {
	var f domain.SalesFilter
	var err error

	if f.CategoryIDs, err = parseIDs(categoryIDs, "categoryIds", "Invalid category ID format: %s"); err != nil {
		return domain.SalesFilter{}, err
	}
	if f.ProductIDs, err = parseIDs(productIDs, "productIds", "Invalid product ID format: %s"); err != nil {
		return domain.SalesFilter{}, err
	}
	if f.StartDate, err = parseDate(startDate, "startDate"); err != nil {
		return domain.SalesFilter{}, err
	}
	if f.EndDate, err = parseDate(endDate, "endDate"); err != nil {
		return domain.SalesFilter{}, err
	}
	return f, nil
}

func parseIDs(raw []string, field, format string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil || id == uuid.Nil {
				return nil, invalidFilter(field, format, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dayLayout, raw, time.UTC); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation(localTimestampLayout, raw, time.UTC); err == nil {
		return &t, nil
	}
	return nil, invalidFilter(field, "Invalid date format for %s. Expected format: YYYY-MM-DD.", field)
}
