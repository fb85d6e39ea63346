package main

import (
	"context"
	"log"

	"listing-web/internal"
)

func main() {
	ctx := context.Background()

	application, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	err = application.Run(ctx)
	application.Close()
	if err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
