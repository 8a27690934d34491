package helpers

import (
	"log"
	"net/http"
	"time"

	"github.com/metal-toolbox/assetctl/internal/model"

	// nolint:gosec // pprof path is only exposed over localhost
	_ "net/http/pprof"
)

// EnablePProfile enables the profiling endpoint
func EnablePProfile() {
	go func() {
		server := &http.Server{
			Addr:              model.ProfilingEndpoint,
			ReadHeaderTimeout: 2 * time.Second, // nolint:gomnd // time duration value is clear as is.
		}

		if err := server.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	log.Println("profiling enabled: " + model.ProfilingEndpoint + "/debug/pprof")
}
