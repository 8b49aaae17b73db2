package api

import (
	"embed"
	"net/http"

	"go.uber.org/zap"
)

//go:embed static
var static embed.FS

func registerDocs(mux *http.ServeMux, logger *zap.SugaredLogger) {
	mux.HandleFunc("GET /openapi.json", serveStatic("static/openapi.json", "application/json", logger))
	mux.HandleFunc("GET /docs", serveStatic("static/docs.html", "text/html; charset=utf-8", logger))
	mux.HandleFunc("GET /redoc", serveStatic("static/redoc.html", "text/html; charset=utf-8", logger))
	mux.HandleFunc("GET /{$}", serveStatic("static/index.html", "text/html; charset=utf-8", logger))
}

func serveStatic(name, contentType string, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := static.ReadFile(name)
		if err != nil {
			logger.Errorw("missing static asset", "name", name, "error", err)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(body); err != nil {
			logger.Errorw("failed to write response", "name", name, "error", err)
		}
	}
}
