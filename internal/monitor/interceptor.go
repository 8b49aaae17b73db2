package monitor

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type callKey struct{}

// Call describes one intercepted request. Handlers read it from the request
// context to report their own timing.
type Call struct {
	Ordinal   int64
	ID        string
	Operation string
	Start     time.Time

	sampler MemorySampler
}

// Elapsed returns the wall-clock time since the call started.
func (c *Call) Elapsed() time.Duration {
	return time.Since(c.Start)
}

// MemoryMB samples the process memory.
func (c *Call) MemoryMB() (float64, error) {
	return c.sampler.SampleMB()
}

// CallFromContext returns the Call stored by Interceptor.Wrap.
func CallFromContext(ctx context.Context) (*Call, bool) {
	c, ok := ctx.Value(callKey{}).(*Call)
	return c, ok
}

// Interceptor wraps API handlers with request accounting.
type Interceptor struct {
	state   *State
	sampler MemorySampler
	logger  *zap.SugaredLogger
	metrics *Metrics
}

// NewInterceptor creates an Interceptor. metrics may be nil.
func NewInterceptor(state *State, sampler MemorySampler, logger *zap.SugaredLogger, metrics *Metrics) *Interceptor {
	return &Interceptor{state: state, sampler: sampler, logger: logger, metrics: metrics}
}

// State returns the shared statistics.
func (i *Interceptor) State() *State {
	return i.state
}

// Wrap returns a handler that counts, times and samples every call to next.
// The response of next passes through unchanged.
func (i *Interceptor) Wrap(operation string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := &Call{
			Ordinal:   i.state.Begin(),
			ID:        r.Header.Get(RequestIDHeader),
			Operation: operation,
			Start:     time.Now(),
			sampler:   i.sampler,
		}
		if call.ID == "" {
			call.ID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, call.ID)

		if i.metrics != nil {
			i.metrics.InFlight.Inc()
		}

		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			// Account for the call even when the handler panics, then re-panic.
			rec := recover()
			status := sw.statusCode
			if rec != nil {
				status = http.StatusInternalServerError
			}
			i.finish(call, r, status, rec)
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), callKey{}, call)))
	})
}

func (i *Interceptor) finish(call *Call, r *http.Request, status int, panicked any) {
	elapsed := call.Elapsed()
	memMB, err := i.sampler.SampleMB()
	if err != nil {
		i.logger.Warnw("memory sample failed", "request_id", call.ID, "error", err)
		memMB = math.NaN()
	}
	i.state.Finish(memMB)

	if i.metrics != nil {
		i.metrics.InFlight.Dec()
		i.metrics.observe(call.Operation, status, elapsed, memMB)
	}

	fields := []interface{}{
		"request", call.Ordinal,
		"request_id", call.ID,
		"operation", call.Operation,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", elapsed,
		"memory_mb", memMB,
	}
	if panicked != nil {
		i.logger.Errorw("request panicked", append(fields, "panic", panicked)...)
		return
	}
	i.logger.Infow("request handled", fields...)
}

type statusWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
