// Package profiling provides optional pprof and Pyroscope profiling.
// Both are off by default and enabled through environment variables, so
// they can ship in production builds without running there.
package profiling

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
)

// StartPprofServer starts the pprof HTTP server on its own port when
// ENABLE_PROFILING=true. The port comes from PPROF_PORT (default 6060).
// It binds to localhost only so the endpoints are never exposed outward.
func StartPprofServer() {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = "6060"
	}
	addr := "localhost:" + port

	go func() {
		log.Printf("Starting pprof server on %s", addr)
		log.Printf("Access profiles at http://%s/debug/pprof/", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Printf("pprof server error: %v", err)
		}
	}()
}
