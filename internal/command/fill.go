package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formschema/pkg/renderers/tui"
)

func (a *app) fillCommand() *cli.Command {
	return &cli.Command{
		Name:      "fill",
		Usage:     "answer a schema interactively in the terminal",
		ArgsUsage: "<file|url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "answer encoding: json, form or pretty",
				Value:   string(tui.OutputFormatJSON),
			},
			&cli.BoolFlag{
				Name:  "confirm",
				Usage: "review the answers before they are written",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write answers to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 || cmd.Args().First() == "-" {
				return errors.New("fill: a schema file or url is required, stdin is used for answers")
			}
			cfg, l, err := a.setup(cmd)
			if err != nil {
				return err
			}
			req, err := a.request(cmd)
			if err != nil {
				return err
			}

			gen, err := a.pipeline(cfg, l, false, []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(cmd.String("format"))),
				tui.WithConfirmation(cmd.Bool("confirm")),
				tui.WithTheme(tui.Theme{InfoPrefix: "» ", ErrorPrefix: "✗ "}),
			})
			if err != nil {
				return err
			}

			req.Renderer = tui.Name
			result, err := gen.Generate(ctx, req)
			switch {
			case errors.Is(err, tui.ErrAborted):
				return fmt.Errorf("fill: %w", err)
			case errors.Is(err, tui.ErrNotConfirmed):
				_, _ = yellow.Fprintln(a.errOut, "answers discarded")
				return nil
			case err != nil:
				if a.printSchemaErrors(err) {
					return ErrInvalidSchema
				}
				return err
			}

			output := result.Output
			if len(output) > 0 && output[len(output)-1] != '\n' {
				output = append(output, '\n')
			}
			return a.write(cmd.String("out"), output)
		},
	}
}
