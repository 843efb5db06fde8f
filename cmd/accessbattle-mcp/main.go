package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/accessbattle/internal/config"
	abmcp "github.com/peterkuimelis/accessbattle/internal/mcp"
)

func main() {
	fs := flag.NewFlagSet("accessbattle-mcp", flag.ExitOnError)
	cfg, err := config.Parse(fs, os.Args[1:], func(cfg *config.Config) {
		fs.StringVar(&cfg.Port, "port", cfg.Port, "TCP port for human player connection")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the starting player (0 = random)")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	abmcp.SetPort(cfg.Port)
	abmcp.SetSeed(cfg.Seed)

	s := server.NewMCPServer("accessbattle", "1.0.0")
	abmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
