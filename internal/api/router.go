package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nkravets/eshop/internal/config"
	"github.com/nkravets/eshop/internal/handler"
	"github.com/nkravets/eshop/internal/infrastructure/auth"
	"github.com/nkravets/eshop/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires the middleware chain and all routes. The authorization
// gate runs for every request; its exemption rules decide which ones pass
// without a token.
func SetupRouter(
	cfg *config.Config,
	gate *auth.Gate,
	users *handler.Users,
	products *handler.Products,
	categories *handler.Categories,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)
	r.Use(gate.Middleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Uploaded images are served back at their public URLs.
	r.PathPrefix("/public/uploads/").Handler(
		http.StripPrefix("/public/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
	).Methods(http.MethodGet)

	api := r.PathPrefix(cfg.APIPrefix).Subrouter()
	users.Register(api)
	products.Register(api)
	categories.Register(api)

	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := r.URL.Path
		method := r.Method

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		status := fmt.Sprintf("%d", recorder.status)
		observability.RequestCounter.WithLabelValues(method, endpoint, status).Inc()
		observability.RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
