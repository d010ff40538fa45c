package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"
)

func explainCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, toolFlags(&cfg)...)

	return &cli.Command{
		Name:  "explain",
		Usage: "Generate a natural-language explanation of recorded activity",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			aud, err := cfg.newAudit(cfg.newLedger())
			if err != nil {
				return err
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " expanding and narrating provenance..."
			sp.Start()
			sentences, err := aud.Explain(ctx)
			sp.Stop()
			if err != nil {
				return err
			}

			for _, s := range sentences {
				fmt.Fprintf(c.Root().Writer, "%s\n\n", s)
			}
			return nil
		},
	}
}
