package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/spritepad/project"
	"github.com/milk9111/spritepad/script"
)

func main() {
	projectPath := flag.String("project", "", "project file (.json)")
	batch := flag.String("batch", "", "tengo batch script to run against the project, then save and exit")
	watchFile := flag.Bool("watch", false, "reload the project when the file changes on disk")
	configPath := flag.String("config", "spritepad.yaml", "preview config file")
	flag.Parse()

	if *projectPath == "" {
		log.Fatal("spritepad: -project is required")
	}

	p, err := project.Load(*projectPath)
	if err != nil {
		log.Fatal(err)
	}

	if *batch != "" {
		if err := script.Run(*batch, p); err != nil {
			log.Fatal(err)
		}
		if err := p.Save(*projectPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Printf("spritepad: %v (using defaults)", err)
	}

	g, err := NewPreview(p, *projectPath, cfg, *watchFile)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("spritepad")

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
