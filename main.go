package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	graphPath := flag.String("graph", "hero.graph.yaml", "graph source in banks/ (banks/ prefix optional)")
	watch := flag.Bool("watch", false, "reload bank and graph sources on change")
	flag.Parse()

	game, err := NewGame(*graphPath, *watch)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
	ebiten.SetWindowTitle("animgraph")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
