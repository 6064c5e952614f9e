// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/book-catalog/pkg/config"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

// StartHTTPServer serve handler na porta configurada até ctx ser cancelado,
// quando faz o shutdown gracioso.
func StartHTTPServer(ctx context.Context, cfg config.ServiceConf, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Servidor HTTP ouvindo em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("Encerrando servidor HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Observability reúne as dependências do middleware.
type Observability struct {
	Logger  zerolog.Logger
	Metrics *metrics.Processor

	router *mux.Router
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware propaga o correlation id, injeta um logger por
// requisição no contexto e registra log de acesso e duração.
func ObservabilityMiddleware(next http.Handler, obs Observability) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		base := obs.Logger
		if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
			base = *l
		}
		logger := base.With().Str("correlation_id", corrID).Logger()
		ctx := logger.WithContext(r.Context())

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		route := routeTemplate(obs.router, r)
		next.ServeHTTP(wrapper, r.WithContext(ctx))

		elapsed := time.Since(start)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", elapsed.Milliseconds()).
			Msg("request completed")

		err := obs.Metrics.Record(metrics.RequestDuration, float64(elapsed.Milliseconds()), map[string]string{
			"method":        r.Method,
			"route":         route,
			"status_family": statusFamily(wrapper.statusCode),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("failed to emit metric")
		}
	})
}

func statusFamily(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
