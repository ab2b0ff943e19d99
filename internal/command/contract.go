package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formschema/pkg/contract"
)

func (a *app) contractCommand() *cli.Command {
	return &cli.Command{
		Name:      "contract",
		Usage:     "print the OpenAPI description of a schema's submission endpoint",
		ArgsUsage: "[file|url|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "json or yaml; defaults to contract.format from the config",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "submission path",
			},
			&cli.StringFlag{
				Name:  "api-version",
				Usage: "info.version of the document",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the document to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, l, err := a.setup(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("format") {
				cfg.Contract.Format = cmd.String("format")
			}
			if cmd.IsSet("path") {
				cfg.Contract.Path = cmd.String("path")
			}
			if cmd.IsSet("api-version") {
				cfg.Contract.Version = cmd.String("api-version")
			}
			format, err := contract.ParseFormat(cfg.Contract.Format)
			if err != nil {
				return err
			}

			req, err := a.request(cmd)
			if err != nil {
				return err
			}
			gen, err := a.pipeline(cfg, l, false, nil)
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

			doc, err := contract.Build(ctx, form,
				contract.WithPath(cfg.Contract.Path),
				contract.WithVersion(cfg.Contract.Version),
			)
			if err != nil {
				return err
			}
			out, err := contract.Marshal(doc, format)
			if err != nil {
				return err
			}
			return a.write(cmd.String("out"), out)
		},
	}
}
