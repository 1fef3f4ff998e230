package main

import (
	"log"

	"github.com/mhittle/mikenews/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("mikenews: %v", err)
	}
}
