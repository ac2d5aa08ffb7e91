package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

// DebugServer exposes net/http/pprof on its own listener so profiling never
// shares the public port.
type DebugServer struct {
	srv    *http.Server
	logger *logging.Logger
}

// StartPprofServer returns a nil *DebugServer when profiling is disabled.
// Close is safe on nil.
func StartPprofServer(cfg config.Config, logger *logging.Logger) (*DebugServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	listener, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	for name, h := range map[string]http.HandlerFunc{
		"cmdline": pprof.Cmdline,
		"profile": pprof.Profile,
		"symbol":  pprof.Symbol,
		"trace":   pprof.Trace,
	} {
		mux.HandleFunc("/debug/pprof/"+name, h)
	}

	d := &DebugServer{
		srv: &http.Server{
			Addr:              listener.Addr().String(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
	go func() {
		logger.Info("pprof server starting", "addr", d.srv.Addr)
		if err := d.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	return d, nil
}

func (d *DebugServer) Addr() string {
	if d == nil {
		return ""
	}
	return d.srv.Addr
}

func (d *DebugServer) Close(timeout time.Duration) error {
	if d == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := d.srv.Shutdown(ctx); err != nil {
		return err
	}
	d.logger.Info("pprof server stopped")
	return nil
}
