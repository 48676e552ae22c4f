package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/frizinak/gotls/simplehttp"
	"github.com/frizinak/gotls/tls"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/frizinak/uiloc/common"
	"github.com/frizinak/uiloc/config"
	"github.com/frizinak/uiloc/data"
	"github.com/frizinak/uiloc/history"
	"github.com/frizinak/uiloc/locale"
	"github.com/frizinak/uiloc/lookup"
)

const (
	mimeHTML = "text/html"
	mimeJS   = "application/javascript"
)

var (
	imgFG    = color.NRGBA{255, 255, 255, 255}
	imgBG    = color.NRGBA{0, 0, 0, 0}
	imgGuide = color.NRGBA{255, 80, 80, 255}
)

type App struct {
	app         *common.App
	imgCacheDir string
	min         *minify.M
	appJS       []byte
	pageTpl     *template.Template
	resultsTpl  *template.Template
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeHTML, html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	return m
}

func absTrans(id string) string { return "/t/" + url.PathEscape(id) }
func absImg(lang, id string) string {
	return fmt.Sprintf("/i/%s/%s.png", url.PathEscape(lang), url.PathEscape(id))
}

func newApp(app *common.App, cacheDir string) (*App, error) {
	funcs := common.HTMLFuncs()
	funcs["absTrans"] = absTrans
	funcs["absImg"] = absImg
	funcs["overflows"] = app.Face.Overflows

	tpl, err := template.New("page").Funcs(funcs).Parse(mainTpl)
	if err != nil {
		return nil, err
	}
	resultsTpl, err := tpl.New("xhr").Parse(`{{- template "results" . -}}`)
	if err != nil {
		return nil, err
	}

	m := newMinifier()
	appJS, err := m.Bytes(mimeJS, []byte(data.AppJS))
	if err != nil {
		return nil, fmt.Errorf("minify app.js: %w", err)
	}

	imgCacheDir := filepath.Join(cacheDir, "img")
	if err := os.MkdirAll(imgCacheDir, 0o700); err != nil {
		return nil, err
	}

	return &App{
		app:         app,
		imgCacheDir: imgCacheDir,
		min:         m,
		appJS:       appJS,
		pageTpl:     tpl,
		resultsTpl:  resultsTpl,
	}, nil
}

func (app *App) route(r *http.Request, l *log.Logger) (simplehttp.HandleFunc, int) {
	p := strings.Trim(r.URL.Path, "/")
	r.URL.Path = p

	switch p {
	case "":
		return app.handleHome, 0
	case "asset/app.js":
		return app.handleAsset, 0
	}

	switch {
	case strings.HasPrefix(p, "s/") && strings.Count(p, "/") >= 2:
		return app.handleSearch, 0
	case strings.HasPrefix(p, "y/") && strings.Count(p, "/") >= 2:
		return app.handleSynonyms, 0
	case strings.HasPrefix(p, "t/"):
		return app.handleTranslations, 0
	case strings.HasPrefix(p, "p/"):
		return app.handlePredict, 0
	case strings.HasPrefix(p, "i/") && strings.Count(p, "/") >= 2:
		return app.handleImg, 0
	}

	return nil, 0
}

// Page is the data every page and xhr fragment is rendered with.
type Page struct {
	Title  string
	Mode   string
	Lang   string
	Query  string
	Langs  []string
	Result lookup.Result
	Err    string
	// Limit is the width translations are compared against, 0 disables it.
	Limit  float64
}

func (app *App) page(mode, lang, query string) Page {
	snap := app.app.Store.Snapshot()
	if lang == "" {
		lang = locale.Canonical(app.app.Config.Data.FirstLanguage)
	}
	return Page{
		Title: "uiloc",
		Mode:  mode,
		Lang:  lang,
		Query: query,
		Langs: snap.Languages,
	}
}

func xhr(r *http.Request) bool {
	reqw := strings.ToLower(r.Header.Get("X-Requested-With"))
	return reqw == "fetch" || reqw == "xmlhttprequest"
}

func (app *App) render(w http.ResponseWriter, r *http.Request, d Page) error {
	tpl := app.pageTpl
	if xhr(r) {
		tpl = app.resultsTpl
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, d); err != nil {
		return err
	}
	w.Header().Set("content-type", mimeHTML)
	return app.min.Minify(mimeHTML, w, buf)
}

// run executes m and renders the page. Lookup failures are shown inline.
func (app *App) run(w http.ResponseWriter, r *http.Request, d Page, m lookup.Mode) (int, error) {
	res, err := app.app.Engine.Run(r.Context(), m)
	d.Result = res
	if err != nil {
		d.Err = err.Error()
	}
	return 0, app.render(w, r, d)
}

// langQuery splits "<prefix>/<lang>/<query>".
func langQuery(p string) (string, string) {
	parts := strings.SplitN(p, "/", 3)
	return locale.Canonical(parts[1]), strings.TrimSpace(parts[2])
}

func (app *App) handleHome(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	return 0, app.render(w, r, app.page("s", "", ""))
}

func (app *App) handleAsset(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	h := w.Header()
	h.Set("content-type", mimeJS)
	if Prod {
		h.Set("cache-control", "max-age=86400")
	}
	_, err := w.Write(app.appJS)
	return 0, err
}

func (app *App) handleSearch(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	lang, q := langQuery(r.URL.Path)
	d := app.page("s", lang, q)
	res, err := app.app.Engine.Run(r.Context(), lookup.Direct{Text: q, Language: lang})
	if err == nil && len(res.Hits) == 0 && q != "" {
		d.Mode = "y"
		return app.run(w, r, d, lookup.Synonym{Text: q, Language: lang})
	}
	d.Result = res
	if err != nil {
		d.Err = err.Error()
	}
	return 0, app.render(w, r, d)
}

func (app *App) handleSynonyms(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	lang, q := langQuery(r.URL.Path)
	return app.run(w, r, app.page("y", lang, q), lookup.Synonym{Text: q, Language: lang})
}

func (app *App) handleTranslations(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "t/"))
	if id == "" {
		return http.StatusNotFound, nil
	}
	app.app.Track(r.Context(), history.EventDetailView)
	d := app.page("t", "", id)
	d.Limit = app.limit(r, app.app.Store.Snapshot(), id)
	return app.run(w, r, d, lookup.CrossLanguage{ID: id})
}

func (app *App) handlePredict(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	text := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "p/"))
	return app.run(w, r, app.page("p", "", text), lookup.Predict{Text: text})
}

func (app *App) cache(path string, w io.Writer, generate func(w io.Writer) error) error {
	f, err := os.Open(path)
	if err == nil {
		_, err := io.Copy(w, f)
		f.Close()
		return err
	}

	if !os.IsNotExist(err) {
		return err
	}

	tmp := fmt.Sprintf("%s.%d.tmp", path, time.Now().UnixNano())
	f, err = os.Create(tmp)
	if err != nil {
		return err
	}
	err = generate(io.MultiWriter(f, w))
	f.Close()
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// limit is the guide line position of a preview: the w query parameter or
// else the width of the string in English.
func (app *App) limit(r *http.Request, snap *locale.Snapshot, id string) float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get("w"), 64); err == nil && v > 0 {
		return v
	}
	if t, ok := snap.Table("en"); ok {
		if _, v, ok := t.Lookup(id); ok {
			return app.app.Face.Width(v)
		}
	}
	return 0
}

func (app *App) handleImg(w http.ResponseWriter, r *http.Request, l *log.Logger) (int, error) {
	p := strings.SplitN(r.URL.Path, "/", 3)
	if !strings.HasSuffix(p[2], ".png") {
		return http.StatusNotFound, nil
	}
	lang, id := locale.Canonical(p[1]), strings.TrimSuffix(p[2], ".png")

	snap := app.app.Store.Snapshot()
	t, ok := snap.Table(lang)
	if !ok {
		return http.StatusNotFound, nil
	}
	id, value, ok := t.Lookup(id)
	if !ok {
		return http.StatusNotFound, nil
	}
	limit := app.limit(r, snap, id)

	key := fmt.Sprintf("%d\x00%s\x00%s\x00%g\x00%g", snap.Version, lang, id, limit, app.app.Face.Size())
	fp := filepath.Join(app.imgCacheDir, fmt.Sprintf("%016x.png", xxhash.Sum64String(key)))

	h := w.Header()
	h.Set("content-type", "image/png")
	h.Set("cache-control", "max-age=86400")
	return 0, app.cache(fp, w, func(w io.Writer) error {
		img, err := app.app.Face.Preview(value, limit, imgFG, imgBG, imgGuide)
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	})
}

func (app *App) errorPages(s *tls.Server) error {
	errTpl, err := template.Must(app.pageTpl.Clone()).New("err").Parse(`
{{- template "header" "Error" }}
	{{ . }}
{{ template "footer" }}`)
	if err != nil {
		return err
	}

	buf := bytes.NewBuffer(nil)
	for i := 300; i <= 500; i++ {
		buf.Reset()
		errstr := http.StatusText(i)
		if errstr == "" {
			errstr = "Something went wrong"
		}
		if err := errTpl.Execute(buf, fmt.Sprintf("%d - %s", i, errstr)); err != nil {
			return err
		}
		b, err := app.min.Bytes(mimeHTML, buf.Bytes())
		if err != nil {
			return err
		}
		s.SetHTTPErrorHandler(i, simplehttp.NewHTTPError(mimeHTML, b))
	}
	return nil
}

func main() {
	var cfgPath string
	var addr string
	var cacheDir string
	flag.StringVar(&cfgPath, "c", config.DefaultPath(), "config file")
	flag.StringVar(&addr, "l", "", "address to bind to, defaults to web.addr")
	flag.StringVar(&cacheDir, "cache", "", "cache dir, defaults to web.cache_dir")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	exit(err)
	if addr == "" {
		addr = cfg.Web.Addr
	}
	if cacheDir == "" {
		cacheDir = cfg.Web.CacheDir
	}
	if cacheDir == "" {
		exit(errors.New("please specify a cache dir (-cache)"))
	}

	zl, err := common.Logger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	exit(err)

	ca, err := common.Open(context.Background(), cfg, zl)
	exit(err)
	defer ca.Close()

	app, err := newApp(ca, cacheDir)
	exit(err)

	l := common.StdLogger(zl, "http")
	s := tls.New(app.route, l)
	exit(app.errorPages(s))

	zl.Info().Str("addr", addr).Bool("prod", Prod).Msg("listening")
	exit(run(s, addr))
}

func exit(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
