package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/config"
	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/history"
	"github.com/frizinak/uiloc/llm"
	"github.com/frizinak/uiloc/locale"
	"github.com/frizinak/uiloc/lookup"
	"github.com/frizinak/uiloc/predict"
	"github.com/frizinak/uiloc/synonym"
	"github.com/frizinak/uiloc/watch"
	"github.com/frizinak/uiloc/width"
)

// App bundles everything a frontend needs.
type App struct {
	Config    config.Config
	Log       zerolog.Logger
	Store     *locale.Store
	Face      *width.Face
	LLM       *llm.Client
	Predictor *predict.Predictor
	Dict      *dict.Dict
	Engine    *lookup.Engine
	History   *history.Store

	watcher *watch.Watcher
}

var ErrNoDataDir = errors.New("no localization directory configured, set data.dir or " + config.EnvDataDir)

func openSnapshot(ctx context.Context, cfg config.Config, loader *locale.Loader) (*locale.Snapshot, error) {
	if cfg.Data.Snapshot != "" {
		return loader.LoadCached(ctx, cfg.Data.Snapshot)
	}
	return loader.Load(ctx)
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (*locale.Store, error) {
	if cfg.Data.Dir == "" {
		if cfg.Data.Snapshot != "" {
			s, err := locale.LoadGOB(cfg.Data.Snapshot)
			if err != nil {
				return nil, fmt.Errorf("snapshot: %w", err)
			}
			return locale.NewStaticStore(s), nil
		}
		log.Warn().Err(ErrNoDataDir).Msg("starting without localization data")
		return locale.NewStaticStore(locale.NewSnapshot(nil, nil, cfg.Data.FirstLanguage)), nil
	}

	loader := cfg.Loader(log.With().Str("component", "loader").Logger())
	s, err := openSnapshot(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	store := locale.NewStore(loader)
	store.Swap(s)
	return store, nil
}

func openLLM(cfg config.Config, log zerolog.Logger) *llm.Client {
	c := llm.New(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		c.BaseURL = cfg.LLM.BaseURL
	}
	if cfg.LLM.Model != "" {
		c.Model = cfg.LLM.Model
	}
	c.Temperature = cfg.LLM.Temperature
	c.HTTP = &http.Client{Timeout: cfg.LLM.TimeoutDuration()}
	c.Log = log.With().Str("component", "llm").Logger()
	return c
}

func openSynonyms(cfg config.Config, c *llm.Client, log zerolog.Logger) (dict.SynonymProvider, error) {
	switch p := cfg.SynonymProvider(); p {
	case config.ProviderLLM:
		return synonym.NewLLM(c, cfg.Synonyms.MaxTerms, log.With().Str("component", "synonyms").Logger()), nil
	case config.ProviderLexicon:
		if cfg.Synonyms.Lexicon != "" {
			return synonym.LoadLexicon(cfg.Synonyms.Lexicon, cfg.Synonyms.MaxTerms)
		}
		return synonym.DefaultLexicon(cfg.Synonyms.MaxTerms)
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown synonym provider %q", p)
	}
}

func openHistory(cfg config.Config) (*history.Store, error) {
	if cfg.History.Disabled || cfg.History.Path == "" {
		return nil, nil
	}
	if cfg.History.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
	}
	return history.Open(cfg.History.Path)
}

// Open wires an App from cfg. When cfg.Data.Watch is set the localization
// directory is watched until Close.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	var err error
	if app.Store, err = openStore(ctx, cfg, log); err != nil {
		return nil, err
	}
	if app.Face, err = width.Open(cfg.Width.Font, cfg.Width.Size); err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}

	app.LLM = openLLM(cfg, log)
	if app.Predictor, err = predict.New(app.LLM, cfg.LLM.CacheSize, log.With().Str("component", "predict").Logger()); err != nil {
		return nil, err
	}

	syn, err := openSynonyms(cfg, app.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("synonyms: %w", err)
	}

	if app.History, err = openHistory(cfg); err != nil {
		return nil, err
	}

	app.Dict = dict.New(app.Store, app.Face, syn)
	var rec lookup.Recorder
	if app.History != nil {
		rec = app.History
	}
	app.Engine = lookup.New(app.Dict, app.Predictor, rec, log.With().Str("component", "lookup").Logger())

	if cfg.Data.Watch && app.Store.Loader() != nil {
		if err := app.watch(); err != nil {
			app.Close()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) watch() error {
	w, err := watch.New(app.Store, watch.DefaultDebounce, app.Log.With().Str("component", "watch").Logger())
	if err != nil {
		return err
	}
	w.OnReload(func(_ *locale.Snapshot, err error) {
		if err == nil {
			app.Track(context.Background(), history.EventReload)
		}
	})
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	app.watcher = w
	return nil
}

// Track counts event in the history store, if there is one.
func (app *App) Track(ctx context.Context, event string) {
	if app.History == nil {
		return
	}
	if err := app.History.Track(ctx, event); err != nil {
		app.Log.Warn().Err(err).Str("event", event).Msg("tracking failed")
	}
}

// Sync pulls the localization repository and reloads.
func (app *App) Sync(ctx context.Context) (*locale.Snapshot, error) {
	loader := app.Store.Loader()
	if loader == nil {
		return nil, ErrNoDataDir
	}
	if err := locale.Pull(ctx, loader.Dir); err != nil {
		return nil, err
	}
	app.Track(ctx, history.EventGitPull)
	s, err := app.Store.Reload(ctx)
	if err != nil {
		return nil, err
	}
	if app.Config.Data.Snapshot != "" {
		if err := locale.StoreGOB(app.Config.Data.Snapshot, s); err != nil {
			app.Log.Warn().Err(err).Msg("could not refresh snapshot cache")
		}
	}
	return s, nil
}

// LastUpdate is the commit time of the localization repository.
func (app *App) LastUpdate(ctx context.Context) (time.Time, error) {
	loader := app.Store.Loader()
	if loader == nil {
		return time.Time{}, ErrNoDataDir
	}
	return locale.LastCommit(ctx, loader.Dir)
}

func (app *App) Close() error {
	var errs []error
	if app.watcher != nil {
		errs = append(errs, app.watcher.Stop())
	}
	if app.History != nil {
		errs = append(errs, app.History.Close())
	}
	return errors.Join(errs...)
}
