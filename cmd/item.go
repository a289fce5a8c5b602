package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// ItemDelete removes one playlist item from the --account account.
func (r *Runner) ItemDelete(ctx context.Context, cmd *cli.Command) error {
	itemID, svc, err := r.itemTarget(ctx, cmd)
	if err != nil {
		return err
	}

	if err := svc.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	r.logger.Info("deleted playlist item", "account", svc.Name(), "item", itemID)
	return r.writePlain("✓ Deleted item %s\n", itemID)
}

// ItemMove moves one playlist item of the --account account to --position.
func (r *Runner) ItemMove(ctx context.Context, cmd *cli.Command) error {
	position := cmd.Int("position")
	if position < 0 {
		return fmt.Errorf("%w: --position must not be negative", shared.ErrInvalidArgument)
	}

	itemID, svc, err := r.itemTarget(ctx, cmd)
	if err != nil {
		return err
	}

	if err := svc.MoveItem(ctx, itemID, position); err != nil {
		return err
	}
	r.logger.Info("moved playlist item", "account", svc.Name(), "item", itemID, "position", position)
	return r.writePlain("✓ Moved item %s to position %d\n", itemID, position)
}

func (r *Runner) itemTarget(ctx context.Context, cmd *cli.Command) (string, services.Service, error) {
	itemID := cmd.StringArg("item-id")
	if itemID == "" {
		return "", nil, fmt.Errorf("%w: item ID", shared.ErrMissingArgument)
	}

	account, err := services.ParseAccount(cmd.String("account"))
	if err != nil {
		return "", nil, err
	}

	svc, err := r.service(ctx, account)
	if err != nil {
		return "", nil, err
	}
	return itemID, svc, nil
}
