package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/predict"
)

// Predictor is satisfied by *predict.Predictor.
type Predictor interface {
	Predict(ctx context.Context, text string) ([]predict.Translation, error)
	Abbreviate(ctx context.Context, original string, formal []predict.Translation, langs []string) ([]predict.Translation, error)
}

// Recorder is told about every finished run. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, kind, query, lang string, results int, failed bool) error
}

type Engine struct {
	d   *dict.Dict
	p   Predictor
	rec Recorder
	log zerolog.Logger
}

// New creates an engine. p and rec may be nil; prediction modes then fail
// and nothing is recorded.
func New(d *dict.Dict, p Predictor, rec Recorder, log zerolog.Logger) *Engine {
	return &Engine{d: d, p: p, rec: rec, log: log}
}

func (e *Engine) Dict() *dict.Dict { return e.d }

var ErrNoPredictor = errors.New("translation prediction is not configured")

func (e *Engine) run(ctx context.Context, m Mode) (Result, error) {
	r := Result{Kind: m.Kind(), Query: m.Query(), Lang: m.Lang()}
	switch m := m.(type) {
	case Direct:
		r.Hits = e.d.Search(m.Text, m.Language)
	case CrossLanguage:
		r.Hits = e.d.Translations(m.ID)
	case Synonym:
		s, err := e.d.Synonyms(ctx, m.Text, m.Language)
		if err != nil {
			return r, err
		}
		r.Hits, r.Terms = s.Hits, s.Terms
	case Predict:
		if e.p == nil {
			return r, ErrNoPredictor
		}
		t, err := e.p.Predict(ctx, m.Text)
		if err != nil {
			return r, err
		}
		r.Translations = t
	case Abbreviate:
		if e.p == nil {
			return r, ErrNoPredictor
		}
		t, err := e.p.Abbreviate(ctx, m.Original, m.Formal, m.Langs)
		if err != nil {
			return r, err
		}
		r.Translations = t
	default:
		return r, fmt.Errorf("unknown search mode %T", m)
	}

	return r, nil
}

// Run executes m and returns its result. In-memory modes never block.
func (e *Engine) Run(ctx context.Context, m Mode) (Result, error) {
	start := time.Now()
	r, err := e.run(ctx, m)
	ev := e.log.Debug()
	if err != nil {
		ev = e.log.Warn().Err(err)
	}
	ev.Stringer("mode", m.Kind()).
		Str("query", m.Query()).
		Str("lang", m.Lang()).
		Int("results", r.Len()).
		Dur("took", time.Since(start)).
		Msg("lookup")

	if e.rec != nil {
		if rerr := e.rec.Record(ctx, m.Kind().String(), m.Query(), m.Lang(), r.Len(), err != nil); rerr != nil {
			e.log.Warn().Err(rerr).Msg("recording history failed")
		}
	}

	return r, err
}

// Go runs m in the background. The returned channel receives exactly one
// Outcome and is then closed. It is buffered, so a caller that lost
// interest can drop it.
func (e *Engine) Go(ctx context.Context, m Mode) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		r, err := e.Run(ctx, m)
		ch <- Outcome{Mode: m, Result: r, Err: err}
		close(ch)
	}()
	return ch
}
