// Command compass serves The Newcomer's Compass community resource directory.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/compass/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatalf("compass: %v", err)
	}
}
