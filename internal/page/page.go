// Package page renders a directory listing into an HTML page.
package page

import (
	_ "embed"
	"fmt"
	"html"
	"net/url"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jomsch/httpdir/internal/listing"
	"github.com/jomsch/httpdir/internal/reqpath"
)

// DownloadRoute is the URL prefix under which raw file bytes are served.
const DownloadRoute = "/httpdir"

// Placeholder tokens a page template must contain.
const (
	ListToken     = "{LIST}"
	PathMenuToken = "{PATHMENU}"
)

//go:embed index.html
var indexHTML string

type Renderer struct {
	template string
}

// New returns a Renderer for tmpl, which must contain both tokens.
func New(tmpl string) (*Renderer, error) {
	for _, token := range []string{ListToken, PathMenuToken} {
		if !strings.Contains(tmpl, token) {
			return nil, fmt.Errorf("template is missing %s", token)
		}
	}
	return &Renderer{template: tmpl}, nil
}

// Default returns a Renderer for the built-in page.
func Default() *Renderer {
	return &Renderer{template: indexHTML}
}

// Load reads a template from path. An empty path selects the built-in page.
func Load(path string) (*Renderer, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	r, err := New(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Render substitutes the entry list of l and the breadcrumb of p into the
// template.
func (r *Renderer) Render(l *listing.Listing, p reqpath.RequestPath) string {
	return strings.NewReplacer(
		ListToken, listHTML(l, p),
		PathMenuToken, pathMenu(p.URLPath),
	).Replace(r.template)
}

func listHTML(l *listing.Listing, p reqpath.RequestPath) string {
	// "/" and "/a/" must not produce a double slash before the name.
	base := strings.TrimRight(escapePath(p.URLPath), "/")

	var b strings.Builder
	for i := 0; i < l.Len(); i++ {
		e := l.Get(i)
		href := base + "/" + url.PathEscape(e.Name)
		class, size := "directory", "-"
		if !e.IsDir {
			href = DownloadRoute + href
			class, size = "file", humanize.Bytes(uint64(e.Size))
		}
		modified := "-"
		if !e.ModTime.IsZero() {
			modified = humanize.Time(e.ModTime)
		}
		fmt.Fprintf(&b, `<li class="%s"><a href="%s">%s</a><span class="size">%s</span><span class="modified">%s</span></li>`,
			class, html.EscapeString(href), html.EscapeString(e.Name), size, modified)
	}
	return b.String()
}

func pathMenu(urlPath string) string {
	var b strings.Builder
	b.WriteString(`<a href="/">/</a>`)
	current := ""
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == "" {
			continue
		}
		current += "/" + url.PathEscape(seg)
		fmt.Fprintf(&b, ` &gt; <a href="%s">%s</a>`, html.EscapeString(current), html.EscapeString(seg))
	}
	return b.String()
}

// escapePath escapes every element of a slash separated path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
