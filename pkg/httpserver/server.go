package httpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hookr/pkg/logger"
)

const ShutdownTimeout = 5 * time.Second

type Server struct {
	srv *http.Server
	log *logger.Logger
}

func New(port string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Start serves in the background. A listen failure is reported on the returned channel.
func (s *Server) Start(name string) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("%s service starting on %s", name, s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Failed to start server: %v", err)
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// WaitForSignal blocks until SIGINT/SIGTERM or until errCh yields a server error.
func WaitForSignal(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		return nil
	case err := <-errCh:
		return err
	}
}
