package dict

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/frizinak/uiloc/locale"
)

// Priority ranks how a hit matched, lower is better.
type Priority uint8

const (
	PriorityID Priority = 1 + iota
	PriorityValue
	PriorityIDContains
)

func (p Priority) String() string {
	switch p {
	case PriorityID:
		return "id"
	case PriorityValue:
		return "value"
	case PriorityIDContains:
		return "id-contains"
	}
	return "none"
}

type Origin uint8

const (
	Direct Origin = iota
	Synonym
)

func (o Origin) String() string {
	if o == Synonym {
		return "synonym"
	}
	return "direct"
}

func (o Origin) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Hit is a single search result.
type Hit struct {
	ID       string   `json:"id"`
	Value    string   `json:"value"`
	Source   string   `json:"source"`
	Length   int      `json:"length"`
	Width    float64  `json:"width,omitempty"`
	Distance int      `json:"distance,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Origin   Origin   `json:"origin"`
	Term     string   `json:"term,omitempty"`
	Pending  bool     `json:"pending,omitempty"`
	Release  string   `json:"releaseDate,omitempty"`
}

func (h Hit) less(o Hit) bool {
	if h.Priority != o.Priority {
		return h.Priority < o.Priority
	}
	if h.Distance != o.Distance {
		return h.Distance < o.Distance
	}
	if h.ID != o.ID {
		return h.ID < o.ID
	}
	return h.Source < o.Source
}

type Hits []Hit

func (h Hits) Len() int           { return len(h) }
func (h Hits) Less(i, j int) bool { return h[i].less(h[j]) }
func (h Hits) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// IDs returns the ids of all hits in order.
func (h Hits) IDs() []string {
	l := make([]string, len(h))
	for i := range h {
		l[i] = h[i].ID
	}
	return l
}

func match(query, id, value string) (Priority, bool) {
	lid := strings.ToLower(id)
	switch {
	case query != "" && lid == query:
		return PriorityID, true
	case strings.Contains(strings.ToLower(value), query):
		return PriorityValue, true
	case strings.Contains(lid, query):
		return PriorityIDContains, true
	}
	return 0, false
}

func newHit(query, id, value, source string, p Priority) Hit {
	return Hit{
		ID:       id,
		Value:    value,
		Source:   source,
		Length:   utf8.RuneCountInString(value),
		Distance: Distance(query, strings.ToLower(value)),
		Priority: p,
		Origin:   Direct,
	}
}

// Search runs a direct search for query in the table and pending tables of
// lang. Results are sorted by priority then distance. An unknown language
// yields no hits.
func (d *Dict) Search(query, lang string) Hits {
	hits := search(d.src.Snapshot(), query, lang)
	for i := range hits {
		hits[i].Width = d.m.Width(hits[i].Value)
	}
	return hits
}

func search(snap *locale.Snapshot, query, lang string) Hits {
	t, ok := snap.Table(lang)
	if !ok {
		return Hits{}
	}

	q := strings.ToLower(query)
	hits := make(Hits, 0, 16)
	for id, value := range t.Entries {
		p, ok := match(q, id, value)
		if !ok {
			continue
		}
		hits = append(hits, newHit(q, id, value, t.File, p))
	}

	pending := make(map[string]Hit)
	for _, pt := range snap.PendingFor(lang) {
		for id, e := range pt.Entries {
			// the primary table owns id even when its value did not match
			if _, ok := t.Entries[id]; ok {
				continue
			}
			p, ok := match(q, id, e.Text)
			if !ok {
				continue
			}
			h := newHit(q, id, e.Text, pt.File, p)
			h.Pending = true
			h.Release = e.ReleaseDate
			if eh, ok := pending[id]; ok && !h.less(eh) {
				continue
			}
			pending[id] = h
		}
	}
	for _, h := range pending {
		hits = append(hits, h)
	}

	sort.Sort(hits)
	return hits
}
