package net

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
)

// Server hosts a game. The host plays seat 1 from the terminal; seat 2 is
// either a TCP client or, when Opponent is set, a local actor.
type Server struct {
	Port     string
	HostName string
	Layout   string // deployed for the host when set
	Opponent game.Actor    // solo mode when non-nil
	Delay    time.Duration // before each actor move
	Seed     int64
	Log      io.Writer // optional game log
	In       io.Reader // host input, stdin when nil
	Out      io.Writer // host output, stdout when nil
}

// Run starts the server, waits for the second player and plays one match.
func (s *Server) Run(ctx context.Context) error {
	var logger EventSource = log.NewMemoryLogger()
	if s.Log != nil {
		logger = log.NewTextLogger(s.Log)
	}
	g := game.NewGame(game.GameConfig{Logger: logger, Seed: s.Seed})
	g.SetPlayerName(1, s.HostName)
	sess := NewSession(g, logger)
	sess.Local.Delay = s.Delay
	sess.Operator = 1

	// The host talks to the session over a pipe, like any remote player.
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	hostSeat := NewNetworkSeat(hostServerConn)

	replDone := make(chan error, 1)
	go func() {
		c := NewClient(hostConn, s.HostName, s.In, s.Out)
		c.Layout = s.Layout
		replDone <- c.RunREPL(ctx)
	}()

	if err := sess.Seat(1, hostSeat); err != nil {
		return err
	}

	if s.Opponent != nil {
		g.BeginJoin()
		g.SetPlayerName(2, "Computer")
		if err := sess.SetActor(2, s.Opponent); err != nil {
			return err
		}
	} else {
		joiner, cleanup, err := s.acceptJoiner(ctx, g)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := sess.Seat(2, joiner); err != nil {
			return err
		}
		go func() {
			if err := sess.Serve(ctx, 2, joiner); err != nil {
				fmt.Printf("Opponent: %v\n", err)
			}
		}()
	}

	go func() {
		_ = sess.Serve(ctx, 1, hostSeat)
	}()
	if err := sess.Start(ctx); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	return <-replDone
}

// acceptJoiner listens for exactly one player and completes the handshake.
func (s *Server) acceptJoiner(ctx context.Context, g *game.Game) (*NetworkSeat, func(), error) {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("listen: %w", err)
	}
	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	conn, err := ln.Accept()
	ln.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("accept: %w", err)
	}
	fmt.Printf("Opponent connected from %s\n", conn.RemoteAddr())

	g.BeginJoin()
	seat := NewNetworkSeat(conn)
	join, err := seat.Handshake()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	g.SetPlayerName(2, join.Name)
	return seat, func() { conn.Close() }, nil
}
