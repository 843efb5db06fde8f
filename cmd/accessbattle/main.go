package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/accessbattle/internal/ai"
	"github.com/peterkuimelis/accessbattle/internal/config"
	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
	abnet "github.com/peterkuimelis/accessbattle/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "solo":
		err = runSolo(ctx, os.Args[2:])
	case "watch":
		err = runWatch(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  accessbattle host  [--port P] [--name NAME] [--seed N] [--layouts FILE] [--layout N]")
	fmt.Println("  accessbattle join  [--addr ADDR] [--name NAME] [--layouts FILE] [--layout N]")
	fmt.Println("  accessbattle solo  [--name NAME] [--script FILE] [--layouts FILE] [--layout N] [--delay D] [--seed N]")
	fmt.Println("  accessbattle watch [--script FILE] [--layouts FILE] [--delay D] [--seed N] [--max-plies N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as Player 1")
	fmt.Println("  join    Connect to a game server and play as Player 2")
	fmt.Println("  solo    Play as Player 1 against the computer")
	fmt.Println("  watch   Watch two computer players")
	fmt.Println()
	fmt.Println("Defaults come from ACCESSBATTLE_* environment variables.")
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	cfg, err := config.Parse(fs, args, func(cfg *config.Config) {
		fs.StringVar(&cfg.Port, "port", cfg.Port, "TCP port to listen on")
		fs.StringVar(&cfg.Name, "name", cfg.Name, "your player name")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the starting player (0 = random)")
		registerLayout(fs, cfg)
	})
	if err != nil {
		return err
	}
	layout, err := cfg.PresetLayout()
	if err != nil {
		return err
	}

	srv := &abnet.Server{
		Port:     cfg.Port,
		HostName: cfg.Name,
		Layout:   layout,
		Seed:     cfg.Seed,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	cfg, err := config.Parse(fs, args, func(cfg *config.Config) {
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "server address to connect to")
		fs.StringVar(&cfg.Name, "name", cfg.Name, "your player name")
		registerLayout(fs, cfg)
	})
	if err != nil {
		return err
	}
	layout, err := cfg.PresetLayout()
	if err != nil {
		return err
	}
	return abnet.Connect(ctx, cfg.Addr, cfg.Name, layout)
}

func runSolo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solo", flag.ExitOnError)
	var script string
	cfg, err := config.Parse(fs, args, func(cfg *config.Config) {
		fs.StringVar(&cfg.Name, "name", cfg.Name, "your player name")
		fs.StringVar(&cfg.Layouts, "layouts", cfg.Layouts, "deployment presets for you and the computer")
		fs.IntVar(&cfg.Layout, "layout", cfg.Layout, "deploy preset N for you (0 = type dp yourself)")
		fs.DurationVar(&cfg.AIDelay, "delay", cfg.AIDelay, "pause before each computer move")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the starting player and the computer (0 = random)")
		fs.StringVar(&script, "script", "", "Lua script for the computer (default: random moves)")
	})
	if err != nil {
		return err
	}

	layout, err := cfg.PresetLayout()
	if err != nil {
		return err
	}
	opponent, err := newActor(cfg, script, cfg.Seed)
	if err != nil {
		return err
	}
	srv := &abnet.Server{
		HostName: cfg.Name,
		Layout:   layout,
		Opponent: opponent,
		Delay:    cfg.AIDelay,
		Seed:     cfg.Seed,
	}
	return srv.Run(ctx)
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var script string
	var maxPlies int
	cfg, err := config.Parse(fs, args, func(cfg *config.Config) {
		fs.StringVar(&cfg.Layouts, "layouts", cfg.Layouts, "deployment presets")
		fs.DurationVar(&cfg.AIDelay, "delay", cfg.AIDelay, "pause before each move")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed (0 = random)")
		fs.StringVar(&script, "script", "", "Lua script for player 1 (default: random moves)")
		fs.IntVar(&maxPlies, "max-plies", 500, "abort the game after this many commands")
	})
	if err != nil {
		return err
	}

	p1, err := newActor(cfg, script, cfg.Seed)
	if err != nil {
		return err
	}
	p2, err := newActor(cfg, "", cfg.Seed+1)
	if err != nil {
		return err
	}

	logger := log.NewTextLogger(os.Stdout)
	g := game.NewGame(game.GameConfig{Logger: logger, Seed: cfg.Seed})
	g.SetPlayerName(1, "Computer 1")
	g.SetPlayerName(2, "Computer 2")
	lg := game.NewLocalGame(g)
	lg.Delay = cfg.AIDelay
	lg.SetActor(1, p1)
	lg.SetActor(2, p2)

	g.InitGame()
	for plies := 0; !g.Phase().IsOver(); plies++ {
		if plies >= maxPlies {
			g.Abort()
			break
		}
		if _, err := lg.ActorMove(ctx, nextPlayer(g)); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(abnet.RenderBoard(g.Snapshot(0)))
	fmt.Println(abnet.ResultText(g.Phase()))
	for p := 1; p <= 2; p++ {
		captures := 0
		for _, e := range logger.EventsOfType(log.EventCapture) {
			if e.Player == p {
				captures++
			}
		}
		pl := g.Player(p)
		fmt.Printf("%s: %d point(s), %d capture(s)\n", pl.Name, pl.Points, captures)
	}
	return nil
}

func registerLayout(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Layouts, "layouts", cfg.Layouts, "deployment presets file")
	fs.IntVar(&cfg.Layout, "layout", cfg.Layout, "deploy preset N (0 = type dp yourself)")
}

// nextPlayer returns the seat the game waits for.
func nextPlayer(g *game.Game) int {
	if g.Phase() == game.PhaseDeployment {
		if !g.HasDeployed(1) {
			return 1
		}
		return 2
	}
	return g.Phase().CurrentPlayer()
}

// newActor builds a Lua actor when a script is given, otherwise a random one
// that deploys from the presets file if it can be read.
func newActor(cfg config.Config, script string, seed int64) (game.Actor, error) {
	if script != "" {
		return ai.LoadLuaActor(script)
	}
	var layouts []game.LayoutEntry
	if lf, err := game.ParseLayoutFile(cfg.Layouts); err == nil {
		layouts = lf.Layouts
	} else {
		fmt.Fprintf(os.Stderr, "Warning: no deployment presets (%v)\n", err)
	}
	return ai.NewRandomActor(seed, layouts), nil
}
