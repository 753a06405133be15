// Package reqpath maps request URL paths onto directories below the
// served root.
package reqpath

import (
	"errors"
	"os"
	"strings"
)

// ErrTraversal is returned for URL paths with a ".." element.
var ErrTraversal = errors.New("path traversal")

// RequestPath is the served root, the URL path of a request and the
// directory path derived from both. DirPath always ends in a slash.
type RequestPath struct {
	Root    string
	URLPath string
	DirPath string
}

// Resolve joins root and urlPath. The leading slash of urlPath is dropped
// and a trailing slash is enforced, so "/srv/" and "/a/b" give "/srv/a/b/".
// Paths containing ".." are rejected before anything touches the disk.
func Resolve(root, urlPath string) (RequestPath, error) {
	if urlPath == "" {
		urlPath = "/"
	}
	for _, seg := range strings.FieldsFunc(urlPath, isSeparator) {
		if seg == ".." {
			return RequestPath{}, ErrTraversal
		}
	}
	if strings.ContainsRune(urlPath, 0) {
		return RequestPath{}, ErrTraversal
	}

	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}
	dir := root + strings.TrimLeft(urlPath, "/")
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return RequestPath{Root: root, URLPath: urlPath, DirPath: dir}, nil
}

// Windows treats a backslash as a separator too.
func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// IsRoot reports whether the request is for the served root itself.
func (p RequestPath) IsRoot() bool { return p.URLPath == "/" }

// IsDir reports whether DirPath exists and is a directory. Stat failures
// count as not a directory.
func (p RequestPath) IsDir() bool {
	info, err := os.Stat(p.DirPath)
	return err == nil && info.IsDir()
}
