package main

import (
	"strings"
)

func nonl(i string) string { return strings.ReplaceAll(strings.ReplaceAll(i, "\n", ""), "\t", "") }

var mainTpl = nonl(`{{- define "value" -}}
{{- range spans .Query .Hit.Value -}}
{{- if .Changed }}{{ .Text }}{{ else }}<span class="m">{{ .Text }}</span>{{ end -}}
{{- end -}}
{{- end -}}

{{- define "size" -}}
<td class="smol">{{ .Length }}</td>
<td class="smol">{{ with .Width }}{{ printf "%.0f" . }}px{{ end }}</td>
{{- end -}}

{{- define "hit" -}}
<tr{{ if .Hit.Pending }} class="pending"{{ end }}>
<td class="smollish"><a href="{{ absTrans .Hit.ID }}">{{ .Hit.ID }}</a></td>
<td>{{ template "value" . }}</td>
{{- template "size" .Hit -}}
<td class="smollish">{{ .Hit.Source }}{{ with .Hit.Release }}<br/>{{ . }}{{ end }}{{ with .Hit.Term }}<br/>~{{ . }}{{ end }}</td>
</tr>
{{- end -}}

{{- define "hits" -}}
{{- with .Result.Terms -}}
<div class="terms">{{ join . ", " }}</div>
{{- end -}}
{{- if .Result.Hits -}}
<table class="main-table">
{{- range .Result.Hits -}}
{{ template "hit" (pair $.Result.Query .) }}
{{- end -}}
</table>
{{- else -}}
No results
{{- end -}}
{{- end -}}

{{- define "translations" -}}
{{- if .Result.Hits -}}
<h2>{{ .Result.Query }}</h2>
<table class="main-table">
{{- range .Result.Hits -}}
<tr{{ if overflows .Value $.Limit }} class="overflow"{{ end }}>
<td class="smollish" title="{{ langNative .Source }}">{{ langName .Source }}</td>
<td>{{ .Value }}</td>
{{- template "size" . -}}
<td class="img-container"><img src="{{ absImg .Source .ID }}"/></td>
</tr>
{{- end -}}
</table>
{{- else -}}
No string with id {{ .Result.Query }}
{{- end -}}
{{- end -}}

{{- define "predictions" -}}
<table class="main-table">
{{- range .Result.Translations -}}
<tr><td class="smollish" title="{{ langNative .Lang }}">{{ langName .Lang }}</td><td>{{ .Text }}</td></tr>
{{- end -}}
</table>
{{- end -}}

{{- define "results" -}}
{{- if .Err -}}
<div class="error">{{ .Err }}</div>
{{- else if eq .Mode "t" -}}
{{ template "translations" . }}
{{- else if eq .Mode "p" -}}
{{ template "predictions" . }}
{{- else if .Query -}}
{{ template "hits" . }}
{{- end -}}
{{- end -}}

{{- define "header" -}}
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>{{ . }}</title>
	<style>
		*                { padding: 0; margin: 0; box-sizing: border-box; }
		html, body       { background-color: #151515; color: #fff; font-family: sans-serif; }
		main             { max-width: 1400px; width: 95%; margin: 20px auto 50px auto; }
		.main-table      { width: 100%; border-collapse: collapse; }
		.results         { margin-top: 40px; }
		td               { padding: 10px 20px; border-bottom: 1px solid #333; }
		td.smol          { width: 5%; color: #aaa; }
		td.smollish      { width: 15%; color: #ccc; }
		td.img-container { text-align: left; }
		tr.pending       { color: #fc8; }
		tr.overflow      { color: #f88; }
		img              { height: 30px; width: auto; image-rendering: crisp-edges; }
		a                { color: #ccc; text-decoration: underline; }
		.m               { background-color: #550; }
		.terms           { margin-bottom: 1em; color: #ccc; }
		.error           { color: #faa; }
		form             { display: flex; gap: 1%; }
		form input,
		form select      { font-size: 1.5em; background-color: #333; color: #fff; outline: none; border: 1px solid #ccc; padding: 15px; }
		form .val        { flex: 1; }
	</style>
</head>
<body>
<main>
{{- end -}}

{{- define "footer" -}}
</main>
</body>
</html>
{{- end -}}

{{- define "main" -}}
<div class="input">
<form class="search">
<select class="mode">
<option value="s"{{ if eq .Mode "s" }} selected{{ end }}>Search</option>
<option value="y"{{ if eq .Mode "y" }} selected{{ end }}>Synonyms</option>
<option value="t"{{ if eq .Mode "t" }} selected{{ end }}>Translations</option>
<option value="p"{{ if eq .Mode "p" }} selected{{ end }}>Predict</option>
</select>
<select class="lang">
{{- range .Langs -}}
<option value="{{ . }}"{{ if eq . $.Lang }} selected{{ end }}>{{ langName . }}</option>
{{- end -}}
</select>
<input type="text"   class="val"    value="{{ .Query }}" placeholder="Text or id" />
<input type="submit" class="submit" value=">" />
</form>
</div>
<div class="results">
{{- template "results" . -}}
</div>
{{- end -}}

{{- template "header" .Title -}}
{{- template "main" . -}}
<script src="/asset/app.js"></script>
{{- template "footer" }}`)
