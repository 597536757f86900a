//go:build !tinygo

// Package statsview runs a local HTTP server with runtime statistics of the
// simulator. Underlying functionality is provided by
// "github.com/go-echarts/statsview".
//
// After launch, graphs are viewable at:
//
//	localhost:12600/debug/statsview
//
// and the standard pprof pages at:
//
//	localhost:12600/debug/pprof/
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const Address = "localhost:12600"

const url = "/debug/statsview"

// URL returns the page address for addr.
func URL(addr string) string {
	if addr == "" {
		addr = Address
	}
	return "http://" + addr + url
}

// Launch starts the stats server on addr in a new goroutine and writes its
// address to output. The returned function stops the server.
func Launch(addr string, output io.Writer) (stop func()) {
	if addr == "" {
		addr = Address
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		_ = mgr.Start()
	}()

	if output != nil {
		fmt.Fprintf(output, "stats server available at %s\n", URL(addr))
	}
	return mgr.Stop
}
