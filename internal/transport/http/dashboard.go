package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var dashboardFS embed.FS

// DashboardHandler serves the embedded single-page dashboard.
func DashboardHandler() http.Handler {
	sub, err := fs.Sub(dashboardFS, "web")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
