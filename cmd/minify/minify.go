package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mimes = map[string]string{
	".js":   "application/javascript",
	".css":  "text/css",
	".html": "text/html",
}

func open(uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "http:") || strings.HasPrefix(uri, "https:") {
		res, err := http.Get(uri)
		if err != nil {
			return nil, err
		}

		return res.Body, err
	}

	return os.Open(uri)
}

func exit(err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// Concatenates every argument to stdout. Arguments prefixed with min: are
// minified according to their extension, e.g. min:data/data/app.js.
func main() {
	m := minify.New()
	m.AddFunc(mimes[".js"], js.Minify)
	m.AddFunc(mimes[".css"], css.Minify)
	m.AddFunc(mimes[".html"], html.Minify)

	out := os.Stdout
	for _, a := range os.Args[1:] {
		p := strings.SplitN(a, ":", 2)
		min := false
		if p[0] == "min" && len(p) == 2 {
			min = true
			a = p[1]
		}

		exit(func() error {
			f, err := open(a)
			if err != nil {
				return err
			}
			defer f.Close()

			if !min {
				_, err = io.Copy(out, f)
				return err
			}

			mime, ok := mimes[path.Ext(a)]
			if !ok {
				return fmt.Errorf("%s: no minifier for %q", a, path.Ext(a))
			}
			return m.Minify(mime, out, f)
		}())
	}
}
