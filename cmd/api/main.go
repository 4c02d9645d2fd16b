package main

import (
	"context"
	"log"

	"github.com/Apurer/agrovet-registry/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("agrovet api: %v", err)
	}
}
