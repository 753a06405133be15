package server

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// downloadHandler serves raw files below the root. It expects the download
// route prefix to be stripped already.
func (s *server) downloadHandler() http.Handler {
	var root http.FileSystem = http.Dir(s.settings.Root)
	if !s.settings.Listing.Dotfiles {
		root = dotFileHidingFileSystem{root}
	}
	files := http.FileServer(root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.hidden(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("markdown") != "" && strings.EqualFold(path.Ext(r.URL.Path), ".md") {
			serveMarkdown(w, r, root)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func serveMarkdown(w http.ResponseWriter, r *http.Request, root http.FileSystem) {
	f, err := root.Open(r.URL.Path)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		fail(w, r, err, "Cannot read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		fail(w, r, err, "Cannot read file")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(blackfriday.Run(content))
}

// dotFileHidingFileSystem refuses to open dot paths and leaves dot entries
// out of the directory indexes http.FileServer generates.
type dotFileHidingFileSystem struct {
	http.FileSystem
}

func (fsys dotFileHidingFileSystem) Open(name string) (http.File, error) {
	if hasDotElement(name) {
		return nil, fs.ErrNotExist
	}
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	return dotFileHidingFile{f}, nil
}

type dotFileHidingFile struct {
	http.File
}

func (f dotFileHidingFile) Readdir(n int) ([]fs.FileInfo, error) {
	files, err := f.File.Readdir(n)
	var visible []fs.FileInfo
	for _, file := range files {
		if !strings.HasPrefix(file.Name(), ".") {
			visible = append(visible, file)
		}
	}
	if err == nil && n > 0 && len(visible) == 0 {
		err = io.EOF
	}
	return visible, err
}

func hasDotElement(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
