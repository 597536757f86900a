//go:build tinygo

package main

import (
	"context"

	"stopwatch/app"
	"stopwatch/hal"
)

func main() {
	h := hal.New()
	if err := app.Run(context.Background(), h, app.Config{}); err != nil {
		h.Logger().WriteLineString(err.Error())
	}
	select {}
}
