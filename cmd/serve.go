package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/encorelabs/encore/internal/server"
	"github.com/encorelabs/encore/internal/services"
	"github.com/encorelabs/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// disabledScraper stands in for the LiveFans provider when no Lambda
// endpoints are configured, so the livefans routes fail cleanly instead of
// panicking.
type disabledScraper struct{}

// compile-time interface assertion
var _ services.ScrapeProvider = disabledScraper{}

func (disabledScraper) FetchSetlist(ctx context.Context, eventID string, excludeCovers bool) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: livefans scraper not configured", shared.ErrServiceUnavailable)
}

func (disabledScraper) SearchArtist(ctx context.Context, name string) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: livefans scraper not configured", shared.ErrServiceUnavailable)
}

// Serve runs the HTTP API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	if r.platform == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}
	if r.setlistfm == nil {
		return fmt.Errorf("%w: setlist.fm api key not configured", shared.ErrMissingCredentials)
	}

	livefans := r.livefans
	if livefans == nil {
		r.logger.Warn("livefans lambda URLs not configured, scraping endpoints disabled")
		livefans = disabledScraper{}
	}

	router := server.NewBasicRouter()
	router.Use(server.CORS(), server.RequestID(), server.RequestLogger(r.logger))

	api := server.NewAPI(server.APIOpts{
		SetlistFM: r.setlistfm,
		LiveFans:  livefans,
		Platform:  r.platform,
		Publisher: r.publisher,
		Logger:    r.logger,
	})
	api.Register(router)

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := int(cmd.Int("port"))
	if port == 0 {
		port = r.config.Server.Port
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: router,
	}

	r.logger.Info("listening", "addr", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
