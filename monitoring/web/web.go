// Package web holds the dashboard page of the monitoring server.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed index.html
var staticAssets embed.FS

// GetAssets returns the static assets. With RXDMA_MONITOR_DEV set, the page
// is served from the source tree so that it can be edited live.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		return http.Dir(path.Dir(file))
	}

	sub, err := fs.Sub(staticAssets, ".")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

func isDevelopmentMode() bool {
	v, ok := os.LookupEnv("RXDMA_MONITOR_DEV")
	if !ok {
		return false
	}

	return strings.ToLower(v) == "true" || v == "1"
}
