package main

import (
	"context"
	"fmt"

	"github.com/encorelabs/encore/internal/setlist"
	"github.com/encorelabs/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// Publish fetches a Setlist.fm setlist by ID and publishes it as a playlist,
// printing the resulting setlist JSON.
func (r *Runner) Publish(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	if r.platform == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}
	if r.setlistfm == nil {
		return fmt.Errorf("%w: setlist.fm api key not configured", shared.ErrMissingCredentials)
	}

	id := cmd.String("id")

	r.logger.Info("fetching setlist", "id", id)

	raw, err := r.setlistfm.Setlist(ctx, id)
	if err != nil {
		return err
	}

	sl, err := setlist.NormalizeSetlistFM(raw, setlist.Options{ExcludeCovers: cmd.Bool("exclude-covers")})
	if err != nil {
		return err
	}

	playlistID, err := r.publisher.Publish(ctx, sl, cmd.String("name"))
	if err != nil {
		return err
	}

	sl.SetlistID = playlistID

	return r.writeJSON(sl, cmd.Bool("pretty"))
}
