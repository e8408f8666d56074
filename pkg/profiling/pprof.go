// Package profiling exposes pprof endpoints for long compression runs. The
// hot loop is pure CPU (waveform generation plus repeated interpolation), so
// a profile of a slow bank usually points straight at the culprit strategy.
package profiling

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers the pprof handlers
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler manages the pprof HTTP server.
type Profiler struct {
	port   string
	logger *zap.Logger
	server *http.Server
}

// New creates a profiler serving on the given port.
func New(port string, logger *zap.Logger) *Profiler {
	return &Profiler{port: port, logger: logger}
}

// Start launches the profiling server in the background.
func (p *Profiler) Start() {
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	p.server = &http.Server{
		Addr:    ":" + p.port,
		Handler: http.DefaultServeMux,
	}
	p.logger.Info("profiling server started",
		zap.String("addr", fmt.Sprintf("http://localhost:%s/debug/pprof/", p.port)))

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.logger.Error("profiling server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the profiling server down gracefully.
func (p *Profiler) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}
