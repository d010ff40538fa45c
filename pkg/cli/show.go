package cli

import (
	"context"

	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/repository"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "show",
		Usage: "Dump every stored binding record as CSV",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			store := repository.NewFileStore(cfg.dir)
			bindings, err := store.ReadAll(ctx)
			if err != nil {
				return err
			}

			return model.EncodeRows(c.Root().Writer, bindings)
		},
	}
}
