package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/quiz"
	"github.com/Garsondee/Lane-Clash/internal/session"
	"github.com/Garsondee/Lane-Clash/internal/termview"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lanes-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "YAML config file")
	questions := flag.String("questions", "", "YAML question bank (generated questions when empty)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	src := quiz.NewSource(nil, cfg.Match.Seed)
	if *questions != "" {
		s, err := quiz.LoadFile(*questions, cfg.Match.Seed)
		if err != nil {
			return err
		}
		src = s
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(cfg, src)
	err = termview.New(screen, sess, cfg.Match.TickRate).Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Print(sess.Report())
	return nil
}
