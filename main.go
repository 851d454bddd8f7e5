package main

import (
	"flag"
	"log"

	"vlanman/config"
	"vlanman/server"
)

func main() {
	cfgPath := flag.String("config", "", "path to vlanman.yaml (default: ./vlanman.yaml or /etc/vlanman)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := &server.App{}
	app.Initialize(cfg)
	if err := app.Run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
