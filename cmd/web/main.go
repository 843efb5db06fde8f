package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/accessbattle/internal/config"
	"github.com/peterkuimelis/accessbattle/internal/web"
)

func main() {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	cfg, err := config.Parse(fs, os.Args[1:], func(cfg *config.Config) {
		fs.IntVar(&cfg.WebPort, "port", cfg.WebPort, "HTTP port to listen on")
		fs.StringVar(&cfg.Layouts, "layouts", cfg.Layouts, "path to layouts YAML file")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(cfg.Layouts)

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	log.Printf("accessbattle web bridge listening on http://localhost:%d", cfg.WebPort)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
