package enrich

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"k8s.io/utils/ptr"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// Layouts accepted for DateTime. Values without a zone are taken as UTC.
const (
	layoutPlain = "2006-01-02 15:04:05"
	layoutISO   = "2006-01-02T15:04:05.999999999"
	layoutISOm  = "2006-01-02T15:04"
)

var truthy = map[string]bool{"1": true, "true": true, "on": true, "yes": true}

// toBool is true only for 1, true, on and yes, in any case.
func toBool(v model.Value) bool {
	return truthy[strings.ToLower(v.Trimmed())]
}

// toDecimal returns nil for blank or non-numeric values.
func toDecimal(v model.Value) *decimal.Decimal {
	s := v.Trimmed()
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// toInt returns nil unless s is a base-10 integer.
func toInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return ptr.To(n)
}

// parseTimestamp accepts "YYYY-MM-DD HH:MM:SS" and ISO 8601 with or without a
// zone. A trailing Z is ignored, as the platform's clocks are zone-less.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if !strings.Contains(s, "T") {
		t, err := time.Parse(layoutPlain, s)
		if err != nil {
			return nil
		}
		return &t
	}

	s = strings.TrimSuffix(s, "Z")
	for _, layout := range []string{layoutISO, layoutISOm, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
