package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/animgraph/anim"
	"github.com/milk9111/animgraph/banks"
	"github.com/milk9111/animgraph/render"
	"github.com/milk9111/animgraph/script"
)

const (
	baseWidth  = 640
	baseHeight = 360

	walkSpeed = 120.0
)

type Game struct {
	frames int

	textures   *render.Textures
	dispatcher *script.Dispatcher
	bank       *anim.Bank
	actor      *Actor
	watcher    *banks.Watcher

	bankPath  string
	graphPath string
	stunned   bool
	lastEmit  string
}

// NewGame loads the graph source, resolves its bank, and wires the actor.
// With watch enabled, edits to YAML sources under banks/ rebuild and swap
// both at runtime.
func NewGame(graphPath string, watch bool) (*Game, error) {
	g := &Game{
		textures:   render.NewTextures(),
		dispatcher: script.NewDispatcher(),
		graphPath:  graphPath,
	}
	g.dispatcher.OnEmit = func(name string) {
		g.lastEmit = name
	}

	graph, bank, err := g.load()
	if err != nil {
		return nil, err
	}
	g.bank = bank
	g.actor = NewActor(graph, bank, g.dispatcher)
	g.actor.X = baseWidth / 2
	g.actor.Y = baseHeight / 2

	if watch {
		w, err := banks.NewWatcher("banks")
		if err != nil {
			log.Printf("game: watch banks/: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

// load builds a fresh graph and bank from their sources. Nothing live is
// mutated; the caller swaps on success.
func (g *Game) load() (*anim.Graph, *anim.Bank, error) {
	graphData, err := banks.Load(g.graphPath)
	if err != nil {
		return nil, nil, fmt.Errorf("game: read graph %s: %w", g.graphPath, err)
	}
	graph := anim.NewGraph()
	if !graph.Load(graphData) {
		return nil, nil, fmt.Errorf("game: load graph %s: %w", g.graphPath, graph.LastError())
	}

	g.bankPath = graph.BankPath()
	bankData, err := banks.Load(g.bankPath)
	if err != nil {
		return nil, nil, fmt.Errorf("game: read bank %s: %w", g.bankPath, err)
	}
	bank := anim.NewBank()
	if !bank.Load(bankData, g.textures) {
		return nil, nil, fmt.Errorf("game: load bank %s: %w", g.bankPath, bank.LastError())
	}

	return graph, bank, nil
}

func (g *Game) reload() {
	graph, bank, err := g.load()
	if err != nil {
		log.Printf("game: reload: %v", err)
		return
	}
	// Keep the actor in its current state when the new graph still has it.
	graph.SetCurrentState(g.actor.graph.CurrentState())
	g.bank = bank
	prev := g.actor
	g.actor = NewActor(graph, bank, g.dispatcher)
	g.actor.X = prev.X
	g.actor.Y = prev.Y
	log.Printf("game: reloaded %s + %s", g.graphPath, g.bankPath)
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case c, ok := <-g.watcher.Events:
			if ok {
				log.Printf("game: %s changed: %s", c.Kind, c.Path)
				g.reload()
			}
		default:
		}
	}

	speed := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		speed = walkSpeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.stunned = !g.stunned
	}

	anim.SetParameter(g.actor.graph, "Speed", speed)
	anim.SetParameter(g.actor.graph, "Stunned", g.stunned)

	g.actor.Update(1.0 / float64(ebiten.TPS()))

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.actor.Draw(screen)

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"state: %s  clip: %s\nSpeed: %.0f  Stunned: %v\nlast emit: %s\narrows: walk  s: toggle stun\nFPS: %.1f",
		g.actor.graph.CurrentState(),
		g.actor.graph.CurrentAnimationName(),
		anim.GetParameter(g.actor.graph, "Speed", 0.0),
		anim.GetParameter(g.actor.graph, "Stunned", false),
		g.lastEmit,
		ebiten.ActualFPS(),
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
