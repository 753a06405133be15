package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/jomsch/httpdir/internal/reqpath"
)

// FileNameHeader carries the name of an uploaded file. Browsers send it
// percent-encoded.
const FileNameHeader = "file-name"

// uploadHandler writes the request body to a new file in the requested
// directory. Existing files are never replaced.
func (s *server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if !s.settings.AllowUpload {
		http.Error(w, "Forbidden: Upload not allowed", http.StatusForbidden)
		return
	}

	p, err := reqpath.Resolve(s.settings.Root, r.URL.Path)
	if err != nil || s.hidden(r.URL.Path) || !p.IsDir() {
		http.NotFound(w, r)
		return
	}

	name, err := uploadName(r.Header.Get(FileNameHeader))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dst := filepath.Join(p.DirPath, name)

	// O_EXCL makes the existence check and the create one step.
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		http.Error(w, "File already exists", http.StatusNotAcceptable)
		return
	}
	if err != nil {
		fail(w, r, err, "Cannot save file")
		return
	}

	var body io.Reader = r.Body
	if s.settings.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.settings.MaxUploadBytes)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			os.Remove(dst)
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		fail(w, r, err, "Cannot save file")
		return
	}

	hlog.FromRequest(r).Info().Str("file", dst).Int64("bytes", n).Msg("uploaded")
	http.Redirect(w, r, r.URL.EscapedPath(), http.StatusSeeOther)
}

// uploadName decodes the header value and checks that it names a single
// entry of the target directory.
func uploadName(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("missing %s header", FileNameHeader)
	}
	name, err := url.PathUnescape(header)
	if err != nil {
		name = header
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return name, nil
}
