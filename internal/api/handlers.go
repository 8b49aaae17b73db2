package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/pricofy/translation-api/internal/domain"
	"github.com/pricofy/translation-api/internal/metrics"
	"github.com/pricofy/translation-api/internal/monitor"
	"github.com/pricofy/translation-api/internal/translation"
	"github.com/pricofy/translation-api/internal/validator"
)

// maxBodyBytes bounds request bodies; valid texts are far smaller.
const maxBodyBytes = 1 << 20

// Translator produces the target-language text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// PerplexityEvaluator scores a text under the translation model.
type PerplexityEvaluator interface {
	ComputePerplexity(ctx context.Context, text string) (float64, error)
}

func translateHandler(translator Translator, evaluator PerplexityEvaluator, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.TranslationRequest
		if err := decodeRequest(w, r, &req); err != nil {
			writeError(w, logger, decodeStatus(err), err)
			return
		}

		if errs := validator.ValidateAll(req.Text); len(errs) > 0 {
			writeErrorDetails(w, logger, http.StatusUnprocessableEntity, errs[0], validator.Messages(errs))
			return
		}

		ctx := r.Context()

		translated, err := translator.Translate(ctx, req.Text)
		if err != nil {
			logger.Errorw("translation failed", "error", err)
			writeError(w, logger, statusFor(err), err)
			return
		}

		bleu := metrics.ComputeBLEU(req.Text, translated)

		perplexity, err := evaluator.ComputePerplexity(ctx, translated)
		if err != nil {
			logger.Errorw("perplexity failed", "error", err)
			writeError(w, logger, http.StatusBadGateway, fmt.Errorf("scoring failed: %w", err))
			return
		}

		result := domain.TranslationResult{
			OriginalText:   req.Text,
			TranslatedText: translated,
			BLEUScore:      bleu,
			Perplexity:     domain.Metric(perplexity),
		}
		if call, ok := monitor.CallFromContext(ctx); ok {
			result.TotalRequests = call.Ordinal
			result.ResponseTime = round(call.Elapsed().Seconds(), 4)
			if mem, err := call.MemoryMB(); err != nil {
				logger.Warnw("memory sample failed", "error", err)
			} else {
				result.MemoryUsageMB = round(mem, 2)
			}
		}

		writeJSON(w, logger, http.StatusOK, result)
	}
}

func validateHandler(logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.TranslationRequest
		if err := decodeRequest(w, r, &req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, domain.ValidationResponse{Error: err.Error()})
			return
		}

		errs := validator.ValidateAll(req.Text)
		if len(errs) == 0 {
			writeJSON(w, logger, http.StatusOK, domain.ValidationResponse{Success: true, Message: "Valid input"})
			return
		}
		writeJSON(w, logger, http.StatusOK, domain.ValidationResponse{
			Error:   errs[0].Message,
			Details: validator.Messages(errs),
		})
	}
}

func monitorHandler(state *monitor.State, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := state.Stats()
		writeJSON(w, logger, http.StatusOK, domain.MonitorSnapshot{
			TotalRequests:    stats.Completed,
			InFlightRequests: stats.Started - stats.Completed,
			MinMemoryUsageMB: domain.Metric(round(stats.MinMemoryMB, 2)),
			MaxMemoryUsageMB: domain.Metric(round(stats.MaxMemoryMB, 2)),
		})
	}
}

func healthHandler(logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// decodeStatus is 422 for well-formed JSON of the wrong shape and 400 otherwise.
func decodeStatus(err error) int {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, translation.ErrTranslationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.SugaredLogger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorw("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, status int, err error) {
	writeErrorDetails(w, logger, status, err, nil)
}

func writeErrorDetails(w http.ResponseWriter, logger *zap.SugaredLogger, status int, err error, details []string) {
	writeJSON(w, logger, status, domain.ErrorResponse{Error: err.Error(), Details: details})
}

// round keeps non-finite values as they are.
func round(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
