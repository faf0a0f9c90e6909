package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/auth"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/cashflow"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/dashboard"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/series"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/status"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
	"github.com/carson-networks/cashflow-gateway/internal/service"
)

const shutdownTimeout = 30 * time.Second

type sessionChecker interface {
	Authenticated(ctx context.Context) bool
}

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Sessions sessionChecker
}

// Routes builds the HTTP handler: /status on the plain mux and the /v1 API
// through huma.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Sessions)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("Cash Flow Gateway", "1.0.0"))
	humaAPI.UseMiddleware(logging.HumaMiddleware(r.Logger))

	auth.NewHandler(r.Service.Auth).Register(humaAPI)
	cashflow.NewHandler(r.Service.CashFlows).Register(humaAPI)
	series.NewHandler(r.Service.Stats).Register(humaAPI)
	dashboard.NewHandler(r.Service.Dashboard).Register(humaAPI)

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}

	if err := <-shutdownErr; err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}
