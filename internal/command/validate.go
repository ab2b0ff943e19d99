package command

import (
	"context"

	"github.com/urfave/cli/v3"
)

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check a schema and list every problem",
		ArgsUsage: "[file|url|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat unsupported field types as errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, l, err := a.setup(cmd)
			if err != nil {
				return err
			}
			req, err := a.request(cmd)
			if err != nil {
				return err
			}
			gen, err := a.pipeline(cfg, l, cmd.Bool("strict"), nil)
			if err != nil {
				return err
			}

			form, err := gen.Parse(ctx, req)
			if err != nil {
				if a.printSchemaErrors(err) {
					return ErrInvalidSchema
				}
				return err
			}

			for _, warning := range form.Warnings {
				_, _ = yellow.Fprintf(a.out, "warning: %s\n", warning.String())
			}
			_, _ = green.Fprintf(a.out, "ok: %q has %d field(s)\n", form.Title, len(form.Fields))
			return nil
		},
	}
}

