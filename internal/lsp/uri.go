package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath converts a file: URI to an absolute filesystem path. A bare
// path is accepted as-is; URIs with any other scheme map to "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil || (parsed.Scheme != "" && parsed.Scheme != "file") {
		return ""
	}
	path := uri
	if parsed.Scheme == "file" {
		path = parsed.Path
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
