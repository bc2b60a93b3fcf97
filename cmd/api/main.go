package main

import (
	"context"
	"log"

	"github.com/Fedi-Riahi/mar/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("marketplace API failed: %v", err)
	}
}
