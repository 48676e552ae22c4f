package locale

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrDataUnavailable is returned when a language has no loaded table.
var ErrDataUnavailable = errors.New("language data unavailable")

// Table holds every non-empty string of one language, keyed by string id.
type Table struct {
	Lang    string
	File    string
	Entries map[string]string
}

func (t *Table) Len() int { return len(t.Entries) }

// Lookup returns the value for id, falling back to a case-insensitive match.
// When several ids only differ in case the lowest one wins.
func (t *Table) Lookup(id string) (string, string, bool) {
	if v, ok := t.Entries[id]; ok {
		return id, v, true
	}
	var key string
	found := false
	for k := range t.Entries {
		if strings.EqualFold(k, id) && (!found || k < key) {
			key, found = k, true
		}
	}
	if !found {
		return "", "", false
	}
	return key, t.Entries[key], true
}

type PendingEntry struct {
	Text        string `json:"text"`
	ReleaseDate string `json:"releaseDate"`
}

// PendingTable holds strings that are not yet merged into the main table
// of Lang.
type PendingTable struct {
	File    string
	Lang    string
	Entries map[string]PendingEntry
}

// Snapshot is an immutable, point-in-time view of all loaded data.
// Nothing mutates a Snapshot once it has been handed to a Store.
type Snapshot struct {
	ByLang    map[string]*Table
	ByFile    map[string]*PendingTable
	Languages []string
	Version   uint64
	LoadedAt  time.Time
}

func NewSnapshot(tables []*Table, pending []*PendingTable, first string) *Snapshot {
	s := &Snapshot{
		ByLang:    make(map[string]*Table, len(tables)),
		ByFile:    make(map[string]*PendingTable, len(pending)),
		Languages: make([]string, 0, len(tables)),
		LoadedAt:  time.Now(),
	}
	for _, t := range tables {
		s.ByLang[t.Lang] = t
		s.Languages = append(s.Languages, t.Lang)
	}
	for _, p := range pending {
		s.ByFile[p.File] = p
	}
	SortLanguages(s.Languages, first)
	return s
}

func (s *Snapshot) Table(lang string) (*Table, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.ByLang[lang]
	return t, ok
}

func (s *Snapshot) Tables() map[string]*Table {
	if s == nil {
		return nil
	}
	return s.ByLang
}

// PendingFor returns the pending tables of lang ordered by file name.
func (s *Snapshot) PendingFor(lang string) []*PendingTable {
	if s == nil {
		return nil
	}
	l := make([]*PendingTable, 0, 1)
	for _, p := range s.ByFile {
		if p.Lang == lang {
			l = append(l, p)
		}
	}
	sort.Slice(l, func(i, j int) bool { return l[i].File < l[j].File })
	return l
}

// SortLanguages sorts alphabetically, moving first to the front.
func SortLanguages(langs []string, first string) {
	sort.Slice(langs, func(i, j int) bool {
		if langs[i] == first {
			return langs[j] != first
		}
		if langs[j] == first {
			return false
		}
		return langs[i] < langs[j]
	})
}
