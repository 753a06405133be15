package server

import (
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/hlog"

	"github.com/jomsch/httpdir/internal/reqpath"
)

// serveZip streams the directory of p as a zip archive. Dotfiles are left
// out unless the listing shows them.
func (s *server) serveZip(w http.ResponseWriter, r *http.Request, p reqpath.RequestPath) {
	zipName := "download.zip"
	if base := path.Base(p.URLPath); !p.IsRoot() && base != "/" {
		zipName = base + ".zip"
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": zipName}))

	zw := zip.NewWriter(w)
	err := filepath.WalkDir(p.DirPath, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := r.Context().Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(p.DirPath, name)
		if err != nil || rel == "." {
			return err
		}
		if !s.settings.Listing.Dotfiles && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		return addToZip(zw, name, filepath.ToSlash(rel), d)
	})
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		// Headers are gone already, all that is left is to log.
		hlog.FromRequest(r).Error().Err(err).Str("dir", p.DirPath).Msg("zip download aborted")
	}
}

func addToZip(zw *zip.Writer, name, rel string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = rel
	header.Method = zip.Deflate
	if d.IsDir() {
		header.Name += "/"
		header.Method = zip.Store
	}

	writer, err := zw.CreateHeader(header)
	if err != nil || d.IsDir() {
		return err
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(writer, f)
	return err
}
