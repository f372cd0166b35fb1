package main

import (
	"log"

	"github.com/shashiranjanraj/kirana/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
