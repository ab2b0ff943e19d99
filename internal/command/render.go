package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/theme"
)

func (a *app) renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a schema with the html or tui renderer",
		ArgsUsage: "[file|url|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "renderer",
				Aliases: []string{"r"},
				Usage:   "renderer name (html, tui); defaults to render.renderer from the config",
			},
			&cli.StringFlag{
				Name:  "theme",
				Usage: "editor theme preset (light, dark)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write output to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "JSON file overriding labels, placeholders and rules",
			},
			&cli.StringFlag{
				Name:  "action",
				Usage: "form action attribute",
			},
			&cli.StringFlag{
				Name:  "errors",
				Usage: "JSON file of server errors ({\"/body/email\": [\"taken\"]}) to show on the form",
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
			req, err := a.request(cmd)
			if err != nil {
				return err
			}

			var extra []orchestrator.Option
			if path := cmd.String("preset"); path != "" {
				preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
				if err != nil {
					return err
				}
				extra = append(extra, orchestrator.WithSchemaTransformer(preset))
			}
			gen, err := a.pipeline(cfg, l, cmd.Bool("strict"), nil, extra...)
			if err != nil {
				return err
			}

			req.Renderer = cmd.String("renderer")
			req.Theme = cfg.Preset()
			if cmd.IsSet("theme") {
				req.Theme = theme.ParsePreset(cmd.String("theme"))
			}
			req.RenderOptions = render.RenderOptions{Action: cmd.String("action")}
			if path := cmd.String("errors"); path != "" {
				mapping, err := a.errorPayload(ctx, gen, req, path)
				if err != nil {
					return err
				}
				req.RenderOptions.Errors = mapping.Fields
				req.RenderOptions.FormErrors = mapping.Form
			}

			result, err := gen.Generate(ctx, req)
			if err != nil {
				if a.printSchemaErrors(err) {
					return ErrInvalidSchema
				}
				return err
			}
			for _, warning := range result.Warnings() {
				_, _ = yellow.Fprintf(a.errOut, "warning: %s\n", warning)
			}
			return a.write(cmd.String("out"), result.Output)
		},
	}
}

// errorPayload reads a path-keyed error document and routes it onto the
// fields of the schema in req.
func (a *app) errorPayload(ctx context.Context, gen *orchestrator.Orchestrator, req orchestrator.Request, path string) (render.ErrorMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return render.ErrorMapping{}, fmt.Errorf("read errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return render.ErrorMapping{}, fmt.Errorf("decode errors %s: %w", path, err)
	}

	form, err := gen.Parse(ctx, req)
	if err != nil {
		return render.ErrorMapping{}, err
	}
	return render.MapErrorPayload(directive.ResolveForm(form), payload), nil
}

// write sends output to path, or to stdout when path is empty.
func (a *app) write(path string, output []byte) error {
	if path == "" {
		_, err := a.out.Write(output)
		return err
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = green.Fprintf(a.errOut, "written to %s\n", path)
	return nil
}
