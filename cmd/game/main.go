package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Lane-Clash/internal/config"
	"github.com/Garsondee/Lane-Clash/internal/quiz"
	"github.com/Garsondee/Lane-Clash/internal/session"
	"github.com/Garsondee/Lane-Clash/internal/view"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	questions := flag.String("questions", "", "YAML question bank (generated questions when empty)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}

	src := quiz.NewSource(nil, cfg.Match.Seed)
	if *questions != "" {
		s, err := quiz.LoadFile(*questions, cfg.Match.Seed)
		if err != nil {
			log.Fatal(err)
		}
		src = s
	}

	g := view.New(session.New(cfg, src))
	ebiten.SetWindowTitle("Lane Clash")
	ebiten.SetWindowSize(g.WindowSize())
	ebiten.SetTPS(cfg.Match.TickRate)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
