package main

import (
	"log"

	"github.com/merchantcare/ticket-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
