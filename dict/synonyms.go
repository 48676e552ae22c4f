package dict

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxSynonymHits caps the number of hits a synonym search returns.
const MaxSynonymHits = 50

var ErrNoProvider = errors.New("no synonym provider configured")

// SynonymProviderError wraps any failure on the synonym path.
type SynonymProviderError struct {
	Err error
}

func (e *SynonymProviderError) Error() string { return "synonym provider: " + e.Err.Error() }
func (e *SynonymProviderError) Unwrap() error { return e.Err }

type SynonymResult struct {
	Hits  Hits     `json:"hits"`
	Terms []string `json:"terms"`
}

// CleanTerms trims terms and drops empties and case-insensitive duplicates,
// keeping the first occurrence.
func CleanTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	n := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		n = append(n, t)
	}
	return n
}

// Synonyms expands query into related terms through the configured provider
// and searches lang for each of them. Hits are ranked by distance to the
// original query.
func (d *Dict) Synonyms(ctx context.Context, query, lang string) (SynonymResult, error) {
	empty := SynonymResult{Hits: Hits{}, Terms: []string{}}
	snap := d.src.Snapshot()
	t, ok := snap.Table(lang)
	if !ok {
		return empty, nil
	}
	if d.syn == nil {
		return empty, &SynonymProviderError{Err: ErrNoProvider}
	}

	raw, err := d.syn.Synonyms(ctx, query, lang)
	if err != nil {
		return empty, &SynonymProviderError{Err: err}
	}
	terms := CleanTerms(raw)
	if len(terms) == 0 {
		return empty, nil
	}

	ids := make([]string, 0, 32)
	termFor := make(map[string]string)
	for _, term := range terms {
		lt := strings.ToLower(term)
		matched := make([]string, 0, 8)
		for id, value := range t.Entries {
			if _, ok := termFor[id]; ok {
				continue
			}
			if strings.Contains(strings.ToLower(id), lt) || strings.Contains(strings.ToLower(value), lt) {
				matched = append(matched, id)
			}
		}
		sort.Strings(matched)
		for _, id := range matched {
			termFor[id] = term
			ids = append(ids, id)
		}
	}

	q := strings.ToLower(query)
	hits := make(Hits, 0, len(ids))
	for _, id := range ids {
		value, ok := t.Entries[id]
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			ID:       id,
			Value:    value,
			Source:   t.File,
			Length:   utf8.RuneCountInString(value),
			Width:    d.m.Width(value),
			Distance: Distance(q, strings.ToLower(value)),
			Origin:   Synonym,
			Term:     termFor[id],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > MaxSynonymHits {
		hits = hits[:MaxSynonymHits]
	}

	return SynonymResult{Hits: hits, Terms: terms}, nil
}
