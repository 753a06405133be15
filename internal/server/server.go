// Package server exposes directory listings, uploads and downloads over
// HTTP.
package server

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jomsch/httpdir/internal/config"
	"github.com/jomsch/httpdir/internal/listing"
	"github.com/jomsch/httpdir/internal/page"
	"github.com/jomsch/httpdir/internal/reqpath"
)

type server struct {
	settings config.Settings
	renderer *page.Renderer
}

// New returns the handler for the whole site. settings is shared read-only
// by every request.
func New(settings config.Settings, renderer *page.Renderer, logger zerolog.Logger) http.Handler {
	s := &server{settings: settings, renderer: renderer}

	// Paths are not cleaned so that ".." reaches reqpath and is rejected there.
	r := mux.NewRouter().SkipClean(true)
	r.PathPrefix(page.DownloadRoute + "/").Handler(http.StripPrefix(page.DownloadRoute, s.downloadHandler()))
	r.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).HandlerFunc(s.dirHandler)
	r.PathPrefix("/").Methods(http.MethodPost).HandlerFunc(s.uploadHandler)

	var h http.Handler = r
	if settings.Gzip {
		h = gzhttp.GzipHandler(h)
	}
	h = requestID(h)
	h = hlog.AccessHandler(logAccess)(h)
	return hlog.NewHandler(logger)(h)
}

func (s *server) dirHandler(w http.ResponseWriter, r *http.Request) {
	p, err := reqpath.Resolve(s.settings.Root, r.URL.Path)
	if err != nil || s.hidden(r.URL.Path) || !p.IsDir() {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("zip") != "" {
		s.serveZip(w, r, p)
		return
	}

	l := listing.New(s.settings.Listing)
	if err := listing.Collect(r.Context(), p.DirPath, l); err != nil {
		fail(w, r, err, "Cannot read directory")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, s.renderer.Render(l, p))
}

// hidden reports whether urlPath reaches into a dotfile or dot directory
// while those are not shown.
func (s *server) hidden(urlPath string) bool {
	return !s.settings.Listing.Dotfiles && hasDotElement(urlPath)
}

// fail logs err and answers with a 500 carrying only msg.
func fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}
