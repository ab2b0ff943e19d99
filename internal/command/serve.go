package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/sample"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/server"
	"github.com/goliatone/go-formschema/pkg/session"
)

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the schema editor in a browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address; defaults to server.addr from the config",
			},
			&cli.StringFlag{
				Name:  "sample-url",
				Usage: "base URL the sample schema is fetched from; defaults to this server",
			},
			&cli.StringFlag{
				Name:  "schema",
				Usage: "file whose contents start in the editor",
			},
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
			if cmd.IsSet("addr") {
				cfg.Server.Addr = cmd.String("addr")
			}
			if cmd.IsSet("sample-url") {
				cfg.Sample.URL = cmd.String("sample-url")
			}

			base := cfg.Sample.URL
			if base == "" {
				base = "http://" + cfg.Server.Addr
			}
			fetcher, err := sample.NewFetcher(base, sample.WithTimeout(cfg.Sample.Timeout))
			if err != nil {
				return err
			}

			coordinatorOptions := []session.Option{
				session.WithFetcher(fetcher),
				session.WithTheme(cfg.Preset()),
				session.WithLogger(l),
			}
			if cmd.Bool("strict") || cfg.Render.StrictKinds {
				coordinatorOptions = append(coordinatorOptions, session.WithStrictKinds())
			}
			if path := cmd.String("schema"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				coordinatorOptions = append(coordinatorOptions, session.WithInitialText(string(data)))
			}

			htmlRenderer, err := html.New(
				html.WithPageTitle(cfg.Render.PageTitle),
				html.WithTemplatesDir(cfg.Render.TemplatesDir),
			)
			if err != nil {
				return err
			}

			serverOptions := []server.Option{
				server.WithCoordinator(session.NewCoordinator(coordinatorOptions...)),
				server.WithHTMLRenderer(htmlRenderer),
				server.WithLogger(l),
				server.WithSampleStaging(),
			}
			if cmd.Bool("strict") || cfg.Render.StrictKinds {
				serverOptions = append(serverOptions, server.WithParseOptions(schema.WithStrictKinds()))
			}
			srv, err := server.New(serverOptions...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			l.Info("editor ready", "sample", fetcher.URL())
			_, _ = green.Fprintf(a.errOut, "editor on http://%s\n", cfg.Server.Addr)
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.ShutdownPeriod)
		},
	}
}
