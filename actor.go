package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/animgraph/anim"
	"github.com/milk9111/animgraph/script"
)

// Actor drives one graph instance and plays back whichever clip the graph
// selects. The graph only picks clip names; frame stepping and event
// emission happen here, downstream of the resolver.
type Actor struct {
	graph      *anim.Graph
	bank       *anim.Bank
	dispatcher *script.Dispatcher

	X, Y float64

	clipName  string
	elapsed   float64
	lastFrame int
}

// NewActor creates an actor at the origin playing the graph's default
// state.
func NewActor(graph *anim.Graph, bank *anim.Bank, dispatcher *script.Dispatcher) *Actor {
	return &Actor{
		graph:      graph,
		bank:       bank,
		dispatcher: dispatcher,
		lastFrame:  -1,
	}
}

// Update steps the graph, restarts playback when the selected clip
// changes, and fires frame events as playback crosses them.
func (a *Actor) Update(dt float64) {
	if a == nil || a.graph == nil {
		return
	}

	a.graph.Update(dt)

	name := a.graph.CurrentAnimationName()
	if name != a.clipName {
		a.clipName = name
		a.elapsed = 0
		a.lastFrame = -1
	} else {
		a.elapsed += dt
	}

	clip := a.bank.GetAnimation(a.clipName)
	if clip == nil {
		return
	}

	frame := clip.FrameAt(a.elapsed)
	if frame == a.lastFrame {
		return
	}
	a.lastFrame = frame

	rel := frame - clip.StartFrame
	for _, evt := range clip.Events {
		if evt.Frame != rel {
			continue
		}
		if err := a.dispatcher.Dispatch(evt); err != nil {
			log.Printf("actor: frame event %s: %v", evt.Type, err)
		}
	}
}

// Draw renders the current frame anchored at the sheet's hotspot.
func (a *Actor) Draw(screen *ebiten.Image) {
	if a == nil {
		return
	}
	clip := a.bank.GetAnimation(a.clipName)
	if clip == nil {
		return
	}
	sheet := a.bank.GetSpriteSheet(clip.SheetID)
	if sheet == nil || sheet.Texture == nil {
		return
	}

	rect := sheet.FrameRect(clip.FrameAt(a.elapsed))
	sub := sheet.Texture.SubImage(rect).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(4, 4)
	op.GeoM.Translate(a.X-sheet.Hotspot.X*4, a.Y-sheet.Hotspot.Y*4)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(sub, op)
}
