// Package domain contains the wire types of the translation API.
package domain

import (
	"encoding/json"
	"math"
)

// Metric is a float that encodes non-finite values (±Inf, NaN) as JSON null.
type Metric float64

// MarshalJSON implements json.Marshaler.
func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON reads null back as +Inf so an undefined score stays out of range.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// Defined reports whether the metric holds a finite value.
func (m Metric) Defined() bool {
	f := float64(m)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// TranslationRequest is the body of /translate and /validate.
type TranslationRequest struct {
	Text string `json:"text" example:"Hello, world!"`
}

// TranslationResult is the response of /translate.
type TranslationResult struct {
	OriginalText   string  `json:"original_text"`
	TranslatedText string  `json:"translated_text"`
	BLEUScore      float64 `json:"bleu_score"`
	Perplexity     Metric  `json:"perplexity"`
	ResponseTime   float64 `json:"response_time"`
	MemoryUsageMB  float64 `json:"memory_usage_MB"`
	TotalRequests  int64   `json:"total_requests"`
}

// ValidationResponse is the response of /validate.
type ValidationResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

// MonitorSnapshot is the response of /monitor.
type MonitorSnapshot struct {
	TotalRequests    int64  `json:"total_requests"`
	InFlightRequests int64  `json:"in_flight_requests"`
	MinMemoryUsageMB Metric `json:"min_memory_usage_MB"`
	MaxMemoryUsageMB Metric `json:"max_memory_usage_MB"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
