// Package predict asks a language model for translations of new UI text
// and for shortened variants of existing translations.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/llm"
	"github.com/frizinak/uiloc/locale"
)

type Translation struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

// Completer is satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, r llm.Request) (string, error)
}

const DefaultCacheSize = 256

type Predictor struct {
	c     Completer
	cache *lru.Cache[string, []Translation]
	langs []string
	log   zerolog.Logger
}

// New creates a Predictor covering locale.SupportedLanguages. Successful
// predictions are kept in an LRU of cacheSize entries.
func New(c Completer, cacheSize int, log zerolog.Logger) (*Predictor, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []Translation](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Predictor{c: c, cache: cache, langs: locale.SupportedLanguages, log: log}, nil
}

const systemPrompt = "You are a professional game UI localization expert. " +
	"Translate English UI text following game industry localization standards and UI text conventions."

func predictPrompt(text string, langs []string) string {
	return fmt.Sprintf(
		"Translate the following English text to all of these languages: %s.\n"+
			"Reply with a single JSON object mapping each language code to its translation.\n\n%q",
		strings.Join(langs, ", "),
		text,
	)
}

func clone(t []Translation) []Translation {
	n := make([]Translation, len(t))
	copy(n, t)
	return n
}

// decode reads a flat code -> string object. Values of codes outside want
// are ignored whatever their type.
func decode(content string, want map[string]struct{}) (map[string]string, error) {
	raw := make(map[string]json.RawMessage)
	if err := llm.DecodeObject(content, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(want))
	for code, v := range raw {
		if _, ok := want[code]; !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, llm.Malformed(content, fmt.Errorf("value for %s: %w", code, err))
		}
		if s = strings.TrimSpace(s); s != "" {
			out[code] = s
		}
	}
	return out, nil
}

func set(l []string) map[string]struct{} {
	m := make(map[string]struct{}, len(l))
	for _, v := range l {
		m[v] = struct{}{}
	}
	return m
}

// Predict returns translations of text for every supported language the
// model answered, longest first.
func (p *Predictor) Predict(ctx context.Context, text string) ([]Translation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Translation{}, nil
	}
	if t, ok := p.cache.Get(text); ok {
		p.log.Debug().Str("text", text).Msg("prediction cache hit")
		return clone(t), nil
	}

	content, err := p.c.Complete(ctx, llm.Request{
		System:    systemPrompt,
		User:      predictPrompt(text, p.langs),
		JSON:      true,
		MaxTokens: 1000,
	})
	if err != nil {
		return nil, err
	}

	values, err := decode(content, set(p.langs))
	if err != nil {
		return nil, err
	}

	res := make([]Translation, 0, len(values))
	for _, code := range p.langs {
		if v, ok := values[code]; ok {
			res = append(res, Translation{Lang: code, Text: v})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return utf8.RuneCountInString(res[i].Text) > utf8.RuneCountInString(res[j].Text)
	})

	p.cache.Add(text, clone(res))
	return res, nil
}
