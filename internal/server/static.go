package server

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const missingBuildPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h1>%s</h1>
<p>The API is running. No front end build was found, API routes are available under /api.</p>
</body>
</html>
`

// staticHandler serves the prebuilt front end from StaticDir. Unknown paths
// get index.html so client side routes resolve.
func (s *Service) staticHandler() http.Handler {
	root := os.DirFS(s.config.StaticDir)
	files := http.FileServer(http.FS(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		if info, err := fs.Stat(root, name); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}

		index, err := fs.ReadFile(root, "index.html")
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.WithError(err).Error("failed to read index.html")
			}
			s.writeMissingBuild(w)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(index)
	})
}

func (s *Service) writeMissingBuild(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	name := template.HTMLEscapeString(s.config.ServiceName)
	_, _ = fmt.Fprintf(w, missingBuildPage, name, name)
}
