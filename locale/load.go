package locale

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPattern = "ui_*.json"
	DefaultFirst   = "ko"
)

// DefaultExclude lists files that match the pattern but must never be loaded.
var DefaultExclude = []string{"_do_not_use_ui_en_dev.json"}

// Loader reads a directory of per-language JSON files named
// <prefix>_<lang>.json and, optionally, a directory of pending files
// following the same convention.
type Loader struct {
	Dir            string
	Pattern        string
	Exclude        []string
	PendingDir     string
	PendingPattern string
	First          string
	Concurrency    int
	Log            zerolog.Logger
}

func NewLoader(dir string) *Loader {
	return &Loader{
		Dir:         dir,
		Pattern:     DefaultPattern,
		Exclude:     DefaultExclude,
		First:       DefaultFirst,
		Concurrency: 4,
		Log:         zerolog.Nop(),
	}
}

// LangFromFile extracts the language code from <prefix>_<lang>.json.
func LangFromFile(name string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	ix := strings.LastIndexByte(base, '_')
	if ix < 0 || ix == len(base)-1 {
		return "", false
	}
	return Canonical(base[ix+1:]), true
}

func (l *Loader) excluded(name string) bool {
	for _, e := range l.Exclude {
		if e == name {
			return true
		}
		if ok, _ := doublestar.Match(e, name); ok {
			return true
		}
	}
	return false
}

func (l *Loader) files(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ok, _ := doublestar.Match(pattern, name); !ok || l.excluded(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

type rawFile struct {
	name string
	data []byte
}

func (l *Loader) read(ctx context.Context, dir string, files []string) ([]rawFile, error) {
	raw := make([]rawFile, len(files))
	g, ctx := errgroup.WithContext(ctx)
	n := l.Concurrency
	if n < 1 {
		n = 1
	}
	g.SetLimit(n)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := os.ReadFile(filepath.Join(dir, f))
			if err != nil {
				return err
			}
			raw[i] = rawFile{name: f, data: d}
			return nil
		})
	}

	return raw, g.Wait()
}

func decodeTable(f rawFile) (*Table, error) {
	lang, ok := LangFromFile(f.name)
	if !ok {
		return nil, fmt.Errorf("%s: no language code in file name", f.name)
	}
	m := make(map[string]string)
	if err := json.Unmarshal(f.data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return &Table{Lang: lang, File: f.name, Entries: m}, nil
}

func decodePending(f rawFile) (*PendingTable, error) {
	lang, ok := LangFromFile(f.name)
	if !ok {
		return nil, fmt.Errorf("%s: no language code in file name", f.name)
	}
	m := make(map[string]PendingEntry)
	if err := json.Unmarshal(f.data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	for k, v := range m {
		if v.Text == "" {
			delete(m, k)
		}
	}
	return &PendingTable{File: f.name, Lang: lang, Entries: m}, nil
}

func (l *Loader) collect(ctx context.Context) ([]rawFile, []rawFile, error) {
	if _, err := os.Stat(l.Dir); err != nil {
		return nil, nil, fmt.Errorf("localization dir: %w", err)
	}

	files, err := l.files(l.Dir, l.Pattern)
	if err != nil {
		return nil, nil, err
	}
	primary, err := l.read(ctx, l.Dir, files)
	if err != nil || l.PendingDir == "" {
		return primary, nil, err
	}

	pattern := l.PendingPattern
	if pattern == "" {
		pattern = "*.json"
	}
	files, err = l.files(l.PendingDir, pattern)
	if err != nil {
		if os.IsNotExist(err) {
			l.Log.Warn().Str("dir", l.PendingDir).Msg("pending dir does not exist")
			return primary, nil, nil
		}
		return nil, nil, err
	}
	pending, err := l.read(ctx, l.PendingDir, files)
	return primary, pending, err
}

func fingerprint(sets ...[]rawFile) uint64 {
	hash := xxhash.New()
	for _, set := range sets {
		for _, f := range set {
			hash.WriteString(f.name)
			hash.Write(f.data)
		}
	}
	return hash.Sum64()
}

// Fingerprint hashes the names and contents of every file Load would read.
func (l *Loader) Fingerprint(ctx context.Context) (uint64, error) {
	primary, pending, err := l.collect(ctx)
	if err != nil {
		return 0, err
	}
	return fingerprint(primary, pending), nil
}

// Load reads all files and returns a fresh snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	primary, rawPending, err := l.collect(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(primary))
	seen := make(map[string]string, len(primary))
	for _, f := range primary {
		t, err := decodeTable(f)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[t.Lang]; ok {
			return nil, fmt.Errorf("%s: language %s already loaded from %s", f.name, t.Lang, prev)
		}
		seen[t.Lang] = f.name
		tables = append(tables, t)
		l.Log.Debug().Str("file", f.name).Str("lang", t.Lang).Int("strings", t.Len()).Msg("loaded table")
	}

	pending := make([]*PendingTable, 0, len(rawPending))
	for _, f := range rawPending {
		p, err := decodePending(f)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	s := NewSnapshot(tables, pending, l.First)
	s.Version = fingerprint(primary, rawPending)
	l.Log.Info().
		Str("dir", l.Dir).
		Int("languages", len(tables)).
		Int("pending", len(pending)).
		Uint64("version", s.Version).
		Msg("localization loaded")

	return s, nil
}

// Relevant reports whether a change to path can affect what Load returns.
func (l *Loader) Relevant(path string) bool {
	dir, name := filepath.Dir(path), filepath.Base(path)
	var pattern string
	switch {
	case filepath.Clean(dir) == filepath.Clean(l.Dir):
		pattern = l.Pattern
		if pattern == "" {
			pattern = DefaultPattern
		}
	case l.PendingDir != "" && filepath.Clean(dir) == filepath.Clean(l.PendingDir):
		pattern = l.PendingPattern
		if pattern == "" {
			pattern = "*.json"
		}
	default:
		return false
	}
	ok, _ := doublestar.Match(pattern, name)
	return ok && !l.excluded(name)
}
