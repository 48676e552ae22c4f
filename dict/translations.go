package dict

import (
	"sort"
	"unicode/utf8"
)

// Translations returns the value of id in every loaded language, widest
// rendering first.
func (d *Dict) Translations(id string) Hits {
	snap := d.src.Snapshot()
	if snap == nil {
		return Hits{}
	}

	hits := make(Hits, 0, len(snap.Languages))
	for lang, t := range snap.Tables() {
		key, value, ok := t.Lookup(id)
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			ID:     key,
			Value:  value,
			Source: lang,
			Length: utf8.RuneCountInString(value),
			Width:  d.m.Width(value),
			Origin: Direct,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Width != hits[j].Width {
			return hits[i].Width > hits[j].Width
		}
		return hits[i].Source < hits[j].Source
	})
	return hits
}
