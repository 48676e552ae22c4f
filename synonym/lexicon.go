package synonym

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/surgebase/porter2"

	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/fuzzy"
)

const (
	MaxKeywords = 3
	// MinSimilarity is the Jaro-Winkler score a fuzzy candidate needs to
	// count as a thesaurus member.
	MinSimilarity = 0.88
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"for": {}, "and": {}, "or": {}, "is": {}, "are": {}, "be": {}, "your": {},
	"you": {}, "my": {}, "it": {}, "this": {}, "that": {}, "with": {}, "from": {},
	"will": {}, "can": {}, "do": {}, "does": {}, "please": {}, "all": {},
}

var keepPOS = map[string]struct{}{"名詞": {}, "動詞": {}, "形容詞": {}}

type langIndex struct {
	groups [][]string
	member map[string][]int
	stems  map[string][]int
	terms  []string

	once  sync.Once
	fuzzy *fuzzy.Index
}

func (li *langIndex) index() *fuzzy.Index {
	li.once.Do(func() { li.fuzzy = fuzzy.NewIndex(2, li.terms) })
	return li.fuzzy
}

// Lexicon expands queries using a thesaurus of synonym groups per language.
type Lexicon struct {
	langs    map[string]*langIndex
	maxTerms int

	tokOnce sync.Once
	tok     *tokenizer.Tokenizer
	tokErr  error
}

func stemPhrase(s string) string {
	f := strings.Fields(s)
	for i := range f {
		f[i] = porter2.Stem(f[i])
	}
	return strings.Join(f, " ")
}

func ParseLexicon(r io.Reader, maxTerms int) (*Lexicon, error) {
	groups, err := parseThesaurus(r)
	if err != nil {
		return nil, err
	}
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}

	x := &Lexicon{langs: make(map[string]*langIndex, len(groups)), maxTerms: maxTerms}
	for lang, gs := range groups {
		li := &langIndex{
			groups: gs,
			member: make(map[string][]int),
			stems:  make(map[string][]int),
		}
		for i, g := range gs {
			for _, m := range g {
				lm := strings.ToLower(m)
				if _, ok := li.member[lm]; !ok {
					li.terms = append(li.terms, lm)
				}
				li.member[lm] = append(li.member[lm], i)
				if isEnglish(lang) {
					st := stemPhrase(lm)
					li.stems[st] = append(li.stems[st], i)
				}
			}
		}
		sort.Strings(li.terms)
		x.langs[lang] = li
	}

	return x, nil
}

func base(lang string) string {
	if ix := strings.IndexByte(lang, '-'); ix > 0 {
		return lang[:ix]
	}
	return lang
}

func isEnglish(lang string) bool  { return base(lang) == "en" }
func isJapanese(lang string) bool { return base(lang) == "ja" }

func (x *Lexicon) lang(lang string) *langIndex {
	if li, ok := x.langs[lang]; ok {
		return li
	}
	return x.langs[base(lang)]
}

// Languages lists the languages the thesaurus has groups for.
func (x *Lexicon) Languages() []string {
	l := make([]string, 0, len(x.langs))
	for k := range x.langs {
		l = append(l, k)
	}
	sort.Strings(l)
	return l
}

func (x *Lexicon) analyzer() (*tokenizer.Tokenizer, error) {
	x.tokOnce.Do(func() {
		x.tok, x.tokErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return x.tok, x.tokErr
}

func (x *Lexicon) japanese(query string) ([]string, error) {
	t, err := x.analyzer()
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, 4)
	for _, token := range t.Tokenize(query) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		features := token.Features()
		if len(features) == 0 {
			continue
		}
		if _, ok := keepPOS[features[0]]; !ok {
			continue
		}
		w := token.Surface
		if len(features) > 6 && features[6] != "*" {
			w = features[6]
		}
		words = append(words, w)
	}
	return words, nil
}

func split(query string) []string {
	f := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '\'')
	})
	words := make([]string, 0, len(f))
	for _, w := range f {
		if _, ok := stopwords[w]; ok {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Keywords extracts at most MaxKeywords search words from query, longest
// first. A query that is itself a thesaurus member is kept whole.
func (x *Lexicon) Keywords(query, lang string) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	words := make([]string, 0, 4)
	if li := x.lang(lang); li != nil {
		if _, ok := li.member[q]; ok {
			words = append(words, q)
		}
	}

	if isJapanese(lang) {
		w, err := x.japanese(q)
		if err != nil {
			return nil, err
		}
		words = append(words, w...)
	} else {
		words = append(words, split(q)...)
	}

	words = dict.CleanTerms(words)
	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i]) > utf8.RuneCountInString(words[j])
	})
	if len(words) > MaxKeywords {
		words = words[:MaxKeywords]
	}
	return words, nil
}

func similar(a, b string) bool {
	if a == b {
		return true
	}
	s, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return false
	}
	return s >= MinSimilarity
}

func (li *langIndex) groupsFor(word, lang string) []int {
	if g, ok := li.member[word]; ok {
		return g
	}
	if isEnglish(lang) {
		if g, ok := li.stems[stemPhrase(word)]; ok {
			return g
		}
	}

	var g []int
	for _, c := range li.index().Candidates(word, 1, 10) {
		if similar(word, c.Item) {
			g = append(g, li.member[c.Item]...)
		}
	}
	return g
}

// Synonyms returns the keywords of query followed by the members of every
// thesaurus group they belong to.
func (x *Lexicon) Synonyms(ctx context.Context, query, lang string) ([]string, error) {
	keywords, err := x.Keywords(query, lang)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := append([]string{}, keywords...)
	if li := x.lang(lang); li != nil {
		seen := make(map[int]struct{})
		for _, k := range keywords {
			for _, gi := range li.groupsFor(k, lang) {
				if _, ok := seen[gi]; ok {
					continue
				}
				seen[gi] = struct{}{}
				terms = append(terms, li.groups[gi]...)
			}
		}
	}

	terms = dict.CleanTerms(terms)
	if len(terms) > x.maxTerms {
		terms = terms[:x.maxTerms]
	}
	return terms, nil
}
