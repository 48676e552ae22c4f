package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/frizinak/uiloc/common"
	"github.com/frizinak/uiloc/config"
	"github.com/frizinak/uiloc/history"
	"github.com/frizinak/uiloc/locale"
	"github.com/frizinak/uiloc/lookup"
	"github.com/frizinak/uiloc/mcpserver"
)

var Version = "dev"

func exit(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if d := c.String("data-dir"); d != "" {
		cfg.Data.Dir = d
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func withApp(c *cli.Context, fn func(ctx context.Context, app *common.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := common.Logger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := common.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

type printer struct {
	w     io.Writer
	json  bool
	color bool
}

func newPrinter(c *cli.Context) printer {
	color := !c.Bool("no-color") && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd())
	return printer{w: os.Stdout, json: c.Bool("json"), color: color}
}

func (p printer) print(tpl string, data any) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	t, err := common.GetTpl(p.color)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(p.w, tpl, data)
}

func query(c *cli.Context) (string, error) {
	q := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if q == "" {
		return "", errors.New("please provide a query")
	}
	return q, nil
}

func lang(c *cli.Context, app *common.App) string {
	if l := c.String("lang"); l != "" {
		return locale.Canonical(l)
	}
	return locale.Canonical(app.Config.Data.FirstLanguage)
}

var langFlag = &cli.StringFlag{
	Name:    "lang",
	Aliases: []string{"l"},
	Usage:   "Language to search, defaults to data.first_language",
}

func searchCommand(c *cli.Context) error {
	q, err := query(c)
	if err != nil {
		return err
	}
	return withApp(c, func(ctx context.Context, app *common.App) error {
		l := lang(c, app)
		r, err := app.Engine.Run(ctx, lookup.Direct{Text: q, Language: l})
		if err != nil {
			return err
		}
		if len(r.Hits) == 0 && !c.Bool("no-fallback") {
			if r, err = app.Engine.Run(ctx, lookup.Synonym{Text: q, Language: l}); err != nil {
				return err
			}
		}
		return newPrinter(c).print("result", r)
	})
}

func translationsCommand(c *cli.Context) error {
	id, err := query(c)
	if err != nil {
		return err
	}
	return withApp(c, func(ctx context.Context, app *common.App) error {
		r, err := app.Engine.Run(ctx, lookup.CrossLanguage{ID: id})
		if err != nil {
			return err
		}
		app.Track(ctx, history.EventDetailView)
		return newPrinter(c).print("result", r)
	})
}

func synonymsCommand(c *cli.Context) error {
	q, err := query(c)
	if err != nil {
		return err
	}
	return withApp(c, func(ctx context.Context, app *common.App) error {
		r, err := app.Engine.Run(ctx, lookup.Synonym{Text: q, Language: lang(c, app)})
		if err != nil {
			return err
		}
		return newPrinter(c).print("result", r)
	})
}

func predictCommand(c *cli.Context) error {
	text, err := query(c)
	if err != nil {
		return err
	}
	return withApp(c, func(ctx context.Context, app *common.App) error {
		r, err := app.Engine.Run(ctx, lookup.Predict{Text: text})
		if err != nil {
			return err
		}
		if langs := c.StringSlice("abbreviate"); len(langs) != 0 {
			for i := range langs {
				langs[i] = locale.Canonical(langs[i])
			}
			r, err = app.Engine.Run(ctx, lookup.Abbreviate{Original: text, Formal: r.Translations, Langs: langs})
			if err != nil {
				return err
			}
		}
		return newPrinter(c).print("result", r)
	})
}

func languagesCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, app *common.App) error {
		return newPrinter(c).print("languages", common.Languages(app.Store.Snapshot()))
	})
}

func historyCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, app *common.App) error {
		if app.History == nil {
			return errors.New("history is disabled")
		}
		if c.Bool("reset") {
			return app.History.Reset(ctx)
		}
		l, err := app.History.Recent(ctx, c.Int("n"))
		if err != nil {
			return err
		}
		return newPrinter(c).print("history", l)
	})
}

func statsCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, app *common.App) error {
		if app.History == nil {
			return errors.New("history is disabled")
		}
		st, err := app.History.Stats(ctx)
		if err != nil {
			return err
		}
		return newPrinter(c).print("stats", st)
	})
}

func syncCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, app *common.App) error {
		s, err := app.Sync(ctx)
		if err != nil {
			return err
		}
		at, err := app.LastUpdate(ctx)
		if err != nil {
			return err
		}
		app.Log.Info().
			Int("languages", len(s.Languages)).
			Time("commit", at).
			Msg("localization updated")
		return nil
	})
}

func snapshotCommand(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return errors.New("please provide an output file")
	}
	return withApp(c, func(ctx context.Context, app *common.App) error {
		s := app.Store.Snapshot()
		if err := locale.StoreGOB(file, s); err != nil {
			return err
		}
		app.Log.Info().Str("file", file).Uint64("version", s.Version).Msg("snapshot written")
		return nil
	})
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("save") {
		return config.Save(c.String("config"), cfg)
	}
	return newPrinter(c).printJSON(cfg.Redacted())
}

func (p printer) printJSON(data any) error {
	p.json = true
	return p.print("", data)
}

func mcpCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, app *common.App) error {
		return mcpserver.New(app.Engine, Version, app.Log).Run(ctx)
	})
}

func main() {
	app := &cli.App{
		Name:                   "uiloc",
		Usage:                  "Look up, compare and predict game UI translations",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Localization directory (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable ANSI colours",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Search strings by id or text",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					langFlag,
					&cli.BoolFlag{
						Name:  "no-fallback",
						Usage: "Do not fall back to a synonym search when nothing matches",
					},
				},
				Action: searchCommand,
			},
			{
				Name:      "translations",
				Aliases:   []string{"t"},
				Usage:     "Show a string in every loaded language",
				ArgsUsage: "<id>",
				Action:    translationsCommand,
			},
			{
				Name:      "synonyms",
				Aliases:   []string{"y"},
				Usage:     "Search strings containing related terms",
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{langFlag},
				Action:    synonymsCommand,
			},
			{
				Name:      "predict",
				Aliases:   []string{"p"},
				Usage:     "Predict translations of new English text",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "abbreviate",
						Aliases: []string{"a"},
						Usage:   "Shorten the predictions of these languages (e.g. --abbreviate de,ru)",
					},
				},
				Action: predictCommand,
			},
			{
				Name:    "languages",
				Aliases: []string{"l"},
				Usage:   "List loaded and supported languages",
				Action:  languagesCommand,
			},
			{
				Name:  "history",
				Usage: "Show recent searches",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "n",
						Usage: "Number of entries",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Clear history and counters",
					},
				},
				Action: historyCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show usage counters",
				Action: statsCommand,
			},
			{
				Name:   "sync",
				Usage:  "git pull the localization directory and reload",
				Action: syncCommand,
			},
			{
				Name:      "snapshot",
				Usage:     "Write the loaded data to a GOB snapshot",
				ArgsUsage: "<file>",
				Action:    snapshotCommand,
			},
			{
				Name:  "config",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Write the effective configuration to the config file",
					},
				},
				Action: configCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the lookup tools over MCP on stdio",
				Action: mcpCommand,
			},
		},
	}

	exit(app.Run(os.Args))
}
