package main

import (
	"log"

	"github.com/kodbank/kodbank/internal/server"
	"github.com/kodbank/kodbank/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run()

}
