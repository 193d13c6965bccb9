package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	metricsPathConstant                 = "/metrics"
	metricsReadHeaderTimeoutConstant    = 5 * time.Second
	metricsShutdownTimeoutConstant      = 5 * time.Second
	metricsListenErrorTemplateConstant  = "failed to listen for metrics on %s: %w"
	metricsServerStartedMessageConstant = "metrics endpoint listening"
	metricsServerFailedMessageConstant  = "metrics endpoint stopped"
	logFieldAddressConstant             = "address"
)

// Server exposes a RunMetrics registry on an HTTP endpoint.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

// StartServer listens on address and serves the metrics path in the background.
func StartServer(address string, runMetrics *RunMetrics, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	listener, listenError := net.Listen("tcp", address)
	if listenError != nil {
		return nil, fmt.Errorf(metricsListenErrorTemplateConstant, address, listenError)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPathConstant, runMetrics.Handler())
	server := &Server{
		httpServer: &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeoutConstant},
		listener:   listener,
		logger:     logger,
	}

	go func() {
		serveError := server.httpServer.Serve(listener)
		if serveError != nil && !errors.Is(serveError, http.ErrServerClosed) {
			logger.Warn(metricsServerFailedMessageConstant, zap.Error(serveError))
		}
	}()
	logger.Info(metricsServerStartedMessageConstant, zap.String(logFieldAddressConstant, server.Address()))
	return server, nil
}

// Address returns the bound listen address.
func (server *Server) Address() string {
	return server.listener.Addr().String()
}

// URL returns the full metrics endpoint URL.
func (server *Server) URL() string {
	return "http://" + server.Address() + metricsPathConstant
}

// Shutdown stops the server, waiting briefly for in-flight scrapes.
func (server *Server) Shutdown(parentContext context.Context) error {
	shutdownContext, cancelShutdown := context.WithTimeout(parentContext, metricsShutdownTimeoutConstant)
	defer cancelShutdown()
	return server.httpServer.Shutdown(shutdownContext)
}
