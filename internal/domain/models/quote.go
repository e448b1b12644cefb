package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// QuoteAttributes is the sparse snapshot returned by a quote lookup.
// Any key may be missing or null.
type QuoteAttributes map[string]any

// Has reports whether key is present with a non-null value.
func (q QuoteAttributes) Has(key string) bool {
	if q == nil {
		return false
	}
	v, ok := q[key]
	return ok && v != nil
}

// Float returns the numeric value stored under key. Strings that parse as
// numbers are accepted; NaN and infinities count as absent.
func (q QuoteAttributes) Float(key string) (float64, bool) {
	if !q.Has(key) {
		return 0, false
	}
	var f float64
	switch v := q[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns a non-empty string value stored under key.
func (q QuoteAttributes) String(key string) (string, bool) {
	if !q.Has(key) {
		return "", false
	}
	s, ok := q[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ResolvedMetric is one display tile derived from QuoteAttributes.
type ResolvedMetric struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Raw     *float64 `json:"raw"`
	Display string   `json:"display"`
}

// CompanyProfile holds the descriptive fields shown next to the metrics.
type CompanyProfile struct {
	Name         string `json:"name"`
	Sector       string `json:"sector"`
	Industry     string `json:"industry"`
	Country      string `json:"country"`
	Employees    string `json:"employees"`
	Website      string `json:"website"`
	FiftyTwoHigh string `json:"fifty_two_week_high"`
	FiftyTwoLow  string `json:"fifty_two_week_low"`
	Beta         string `json:"beta"`
	Summary      string `json:"summary,omitempty"`
}
