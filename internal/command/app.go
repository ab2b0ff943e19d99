// Package command builds the formschema command line.
package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formschema/internal/config"
	internalLoader "github.com/goliatone/go-formschema/internal/loader"
	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/renderers/tui"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// ErrInvalidSchema is returned by validate after the issues were printed.
var ErrInvalidSchema = errors.New("schema is invalid")

var (
	red    = color.New(color.FgRed, color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

// Option configures the command tree.
type Option func(*app)

// WithIO replaces the standard streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		if in != nil {
			a.in = in
		}
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithPromptDriver overrides the terminal prompts used by fill and by
// render --renderer tui.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	driver tui.PromptDriver
}

// New returns the root command.
func New(version string, options ...Option) *cli.Command {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	return &cli.Command{
		Name:        "formschema",
		Usage:       "validate, render and serve JSON form schemas",
		Version:     version,
		Description: "formschema reads a JSON form schema and turns it into an HTML form, a terminal questionnaire or an OpenAPI contract.",
		Writer:      a.out,
		ErrWriter:   a.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log debug output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log info output",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "pretty, text or json",
			},
		},
		Commands: []*cli.Command{
			a.validateCommand(),
			a.renderCommand(),
			a.fillCommand(),
			a.contractCommand(),
			a.serveCommand(),
		},
	}
}

// setup loads the config file and applies global flag overrides, then
// installs the process logger.
func (a *app) setup(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if cmd.IsSet("debug") {
		cfg.Log.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("verbose") {
		cfg.Log.Verbose = cmd.Bool("verbose")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	opts := cfg.LoggerOptions()
	opts.Output = a.errOut
	l := logger.Initialize(opts)
	if cfg.Path != "" {
		l.Debug("config loaded", "path", cfg.Path)
	}
	return cfg, l, nil
}

// request turns the positional argument into an orchestrator request. "-"
// or no argument reads the schema from stdin.
func (a *app) request(cmd *cli.Command) (orchestrator.Request, error) {
	arg := strings.TrimSpace(cmd.Args().First())
	switch {
	case arg == "" || arg == "-":
		data, err := io.ReadAll(a.in)
		if err != nil {
			return orchestrator.Request{}, fmt.Errorf("read stdin: %w", err)
		}
		return orchestrator.Request{Text: string(data)}, nil
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		return orchestrator.Request{Source: schema.SourceFromURL(arg)}, nil
	default:
		return orchestrator.Request{Source: schema.SourceFromFile(arg)}, nil
	}
}

// pipeline builds an orchestrator holding the html and tui renderers.
func (a *app) pipeline(cfg *config.Config, l *slog.Logger, strict bool, tuiOptions []tui.Option, extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	htmlRenderer, err := html.New(
		html.WithPageTitle(cfg.Render.PageTitle),
		html.WithTemplatesDir(cfg.Render.TemplatesDir),
	)
	if err != nil {
		return nil, err
	}
	if a.driver != nil {
		tuiOptions = append(tuiOptions, tui.WithPromptDriver(a.driver))
	}
	tuiRenderer, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, err
	}
	registry, err := render.NewRegistry(htmlRenderer, tuiRenderer)
	if err != nil {
		return nil, err
	}

	var parseOptions []schema.ParseOption
	if strict || cfg.Render.StrictKinds {
		parseOptions = append(parseOptions, schema.WithStrictKinds())
	}

	options := []orchestrator.Option{
		orchestrator.WithLoader(internalLoader.New(schema.NewLoaderOptions(
			schema.WithHTTPFallback(cfg.Sample.Timeout),
		))),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(cfg.Render.Renderer),
		orchestrator.WithParseOptions(parseOptions...),
		orchestrator.WithLogger(l),
	}
	return orchestrator.New(append(options, extra...)...), nil
}

// printSchemaErrors writes every parse issue, one per line.
func (a *app) printSchemaErrors(err error) bool {
	list, ok := schema.AsErrorList(err)
	if !ok {
		return false
	}
	_, _ = red.Fprintf(a.errOut, "%d schema issue(s):\n", len(list))
	for _, issue := range list {
		_, _ = fmt.Fprintf(a.errOut, "  %s\n", issue.String())
	}
	return true
}
