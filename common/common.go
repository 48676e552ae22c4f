package common

import (
	htmltpl "html/template"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/frizinak/uiloc/dict"
	"github.com/frizinak/uiloc/locale"
)

const tplStr = `{{- define "hit" -}}
{{ clrGreen }}{{ .Hit.ID }}{{ clrPop }} {{ clrGray }}[{{ .Hit.Source }}
{{- if .Hit.Pending }} pending{{ with .Hit.Release }} {{ . }}{{ end }}{{ end -}}
{{- with .Hit.Term }} ~{{ . }}{{ end }}]{{ clrPop }}
  {{ highlight .Query .Hit.Value }} {{ clrBlue }}({{ template "size" .Hit }}){{ clrPop }}
{{- end -}}

{{- define "size" -}}
{{ .Length }}{{ with .Width }}, {{ printf "%.1f" . }}px{{ end }}
{{- end -}}

{{- define "hits" -}}
{{- range .Hits }}{{ template "hit" (pair $.Query .) }}
{{ else }}{{ clrRed }}no results{{ clrPop }}
{{ end -}}
{{- end -}}

{{- define "translations" -}}
{{- range .Hits -}}
{{ clrCyan }}{{ printf "%-6s" .Source }}{{ clrPop }} {{ .Value }} {{ clrBlue }}({{ template "size" . }}){{ clrPop }}
{{ else }}{{ clrRed }}no string with id {{ .Query }}{{ clrPop }}
{{ end -}}
{{- end -}}

{{- define "predictions" -}}
{{- range .Translations -}}
{{ clrCyan }}{{ printf "%-6s" .Lang }}{{ clrPop }} {{ .Text }}
{{ end -}}
{{- end -}}

{{- define "result" -}}
{{- if eq .Kind.String "translations" }}{{ template "translations" . }}
{{- else if or (eq .Kind.String "predict") (eq .Kind.String "abbreviate") }}{{ template "predictions" . }}
{{- else -}}
{{- with .Terms }}{{ clrYellow }}terms:{{ clrPop }} {{ join . ", " }}
{{ end -}}
{{ template "hits" . }}
{{- end -}}
{{- end -}}

{{- define "history" -}}
{{- range . -}}
{{ clrGray }}{{ ago .At }}{{ clrPop }} {{ clrGreen }}{{ .Query }}{{ clrPop }} {{ .Kind }}{{ with .Lang }} {{ . }}{{ end }}
{{ else }}no searches yet
{{ end -}}
{{- end -}}

{{- define "counters" -}}
{{- range $k, $v := . }}  {{ printf "%-14s" $k }} {{ $v }}
{{ end -}}
{{- end -}}

{{- define "stats" -}}
{{ clrYellow }}first used{{ clrPop }}  {{ .FirstUsed.Format "2006-01-02" }}
{{ clrYellow }}searches{{ clrPop }}    {{ .Searches }}
{{ with .ByKind }}{{ clrYellow }}by kind{{ clrPop }}
{{ template "counters" . }}{{ end -}}
{{ with .ByLang }}{{ clrYellow }}by language{{ clrPop }}
{{ template "counters" . }}{{ end -}}
{{ with .Failed }}{{ clrRed }}failed{{ clrPop }}
{{ template "counters" . }}{{ end -}}
{{ with .Events }}{{ clrYellow }}events{{ clrPop }}
{{ template "counters" . }}{{ end -}}
{{- end -}}

{{- define "languages" -}}
{{- range . -}}
{{ clrCyan }}{{ printf "%-6s" .Code }}{{ clrPop }} {{ printf "%-22s" .Name }} {{ .Native }}
{{- if .Strings }} {{ clrGray }}{{ .Strings }} strings{{ if .Pending }}, {{ .Pending }} pending{{ end }}{{ clrPop }}{{ end }}
{{ end -}}
{{- end -}}`

// HitView pairs a hit with the text it should be highlighted against.
type HitView struct {
	Query string
	Hit   dict.Hit
}

// Language describes one language for listings.
type Language struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Native    string `json:"native"`
	Strings   int    `json:"strings,omitempty"`
	Pending   int    `json:"pending,omitempty"`
	Supported bool   `json:"supported"`
}

// Languages lists the languages loaded in s followed by the remaining
// supported prediction languages.
func Languages(s *locale.Snapshot) []Language {
	seen := make(map[string]struct{})
	l := make([]Language, 0, len(locale.SupportedLanguages))
	var langs []string
	if s != nil {
		langs = s.Languages
	}
	for _, code := range langs {
		seen[code] = struct{}{}
		lang := language(code)
		if t, ok := s.Table(code); ok {
			lang.Strings = t.Len()
		}
		for _, p := range s.PendingFor(code) {
			lang.Pending += len(p.Entries)
		}
		l = append(l, lang)
	}

	rest := make([]Language, 0, len(locale.SupportedLanguages))
	for _, code := range locale.SupportedLanguages {
		if _, ok := seen[code]; !ok {
			rest = append(rest, language(code))
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Code < rest[j].Code })
	return append(l, rest...)
}

func language(code string) Language {
	return Language{
		Code:      code,
		Name:      locale.Name(code),
		Native:    locale.NativeName(code),
		Supported: locale.IsSupported(code),
	}
}

func pair(query string, h dict.Hit) HitView {
	if h.Term != "" {
		query = h.Term
	}
	return HitView{Query: query, Hit: h}
}

// Ago renders t relative to now in the coarsest sensible unit.
func Ago(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	}
	return t.Format("2006-01-02")
}

func plural(n int, unit string) string {
	s := strconv.Itoa(n) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s
}

func getTplFuncs(color bool) template.FuncMap {
	q := &clrs{off: !color}
	clrRed := func() clr { return q.Get(31) }
	clrGreen := func() clr { return q.Get(32) }
	clrYellow := func() clr { return q.Get(33) }
	clrBlue := func() clr { return q.Get(34) }
	clrMagenta := func() clr { return q.Get(35) }
	clrCyan := func() clr { return q.Get(36) }
	clrGray := func() clr { return q.Get(37) }
	clrPop := func() clr { return q.Pop() }

	highlight := func(query, value string) stringer {
		if strings.TrimSpace(query) == "" {
			return strStringer(value)
		}
		spans := dict.Diff(query, value).Spans()
		list := make(stringList, 0, len(spans)*3)
		for _, s := range spans {
			if s.Changed {
				list = append(list, strStringer(s.Text))
				continue
			}
			list = append(list, clrYellow(), strStringer(s.Text), clrPop())
		}
		return list
	}

	return template.FuncMap{
		"clrRed":     clrRed,
		"clrGreen":   clrGreen,
		"clrYellow":  clrYellow,
		"clrBlue":    clrBlue,
		"clrMagenta": clrMagenta,
		"clrCyan":    clrCyan,
		"clrGray":    clrGray,
		"clrPop":     clrPop,
		"highlight":  highlight,
		"pair":       pair,
		"join":       func(l []string, sep string) string { return strings.Join(l, sep) },
		"ago":        Ago,
		"langName":   locale.Name,
		"langNative": locale.NativeName,
	}
}

// HTMLFuncs returns the helpers shared with the web templates.
func HTMLFuncs() htmltpl.FuncMap {
	return htmltpl.FuncMap{
		"pair":       pair,
		"spans":      func(query, value string) []dict.Span { return dict.Diff(query, value).Spans() },
		"join":       func(l []string, sep string) string { return strings.Join(l, sep) },
		"ago":        Ago,
		"langName":   locale.Name,
		"langNative": locale.NativeName,
	}
}

// GetTpl parses the terminal templates. Colours are emitted only when color
// is set.
func GetTpl(color bool) (*template.Template, error) {
	return template.New("tpls").Funcs(getTplFuncs(color)).Parse(tplStr)
}
