package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists every playlist of the --account account.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	account, err := services.ParseAccount(cmd.String("account"))
	if err != nil {
		return err
	}

	svc, err := r.service(ctx, account)
	if err != nil {
		return err
	}

	r.logger.Info("listing playlists", "account", account)
	playlists, err := services.ListPlaylists(ctx, svc)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists in the %s account:\n\n", len(playlists), account)
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Title)
		r.writePlain("   ID: %s • %d videos • %s\n", p.ID, p.ItemCount, p.Privacy)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
	}
	return nil
}
