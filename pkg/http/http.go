package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ShutdownTimeout bounds how long a server waits for in-flight requests once
// its context is done. Hijacked websocket connections are not waited for.
const ShutdownTimeout = 10 * time.Second

// ListenAndServe runs the servers until ctx is done, then shuts them down
// and waits for every server to return.
func ListenAndServe(ctx context.Context, servers ...*http.Server) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				logs.Warn(errors.New("server shutdown failed").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(len(servers))

	for _, s := range servers {
		go func(s *http.Server) {
			defer wg.Done()

			logger := logs.WithTag("addr", s.Addr)
			logger.Info("server listening")

			err := s.ListenAndServe()
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				logger.Info("server stopped")
				return
			}

			logs.Warn(errors.New("server failed").
				WithTag("addr", s.Addr).
				Wrap(err))
		}(s)
	}

	wg.Wait()
}

// MetricsPathFormatter labels request metrics by API route. Client errors are
// dropped and every static asset shares the "/" label.
func MetricsPathFormatter(statusCode int, path string) string {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusMethodNotAllowed:
		return ""
	}

	if !strings.HasPrefix(path, "/api/") && path != "/metrics" {
		return "/"
	}
	return path
}
