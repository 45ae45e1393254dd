/* serve.go
 * Contains the serve loop shared by Start: runs the HTTP server until it
 * fails or the context is cancelled, then shuts it down gracefully so the
 * process can exit on a signal instead of hanging in ListenAndServe.
 * Authors: Zachary Bower
 */

package web

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// serve blocks until srv fails on its own or ctx is cancelled. On
// cancellation the server is drained via Shutdown and serve returns nil.
func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
