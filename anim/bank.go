package anim

import (
	"fmt"
	"image"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// TextureProvider resolves spritesheet textures during a bank load.
// Implementations cache by id: get-if-cached, load-if-absent. A provider
// may return nil for a path it cannot resolve; the bank stores the
// descriptor anyway with a nil texture.
type TextureProvider interface {
	GetOrLoad(id, path string) *ebiten.Image
}

// Hotspot is the pivot point within a frame, in pixels from the frame's
// top-left corner.
type Hotspot struct {
	X float64
	Y float64
}

// SpriteSheet describes one texture's frame grid.
type SpriteSheet struct {
	ID          string
	Path        string
	FrameWidth  int
	FrameHeight int
	Columns     int
	Rows        int
	TotalFrames int
	Spacing     int
	Margin      int
	Hotspot     Hotspot
	Texture     *ebiten.Image // nil when the provider could not resolve Path
}

// FrameRect returns the source rectangle of frame i, honoring margin and
// spacing. Frames are laid out left-to-right, top-to-bottom.
func (s *SpriteSheet) FrameRect(i int) image.Rectangle {
	if s == nil || s.Columns <= 0 || s.FrameWidth <= 0 || s.FrameHeight <= 0 {
		return image.Rectangle{}
	}
	if i < 0 {
		i = 0
	}
	col := i % s.Columns
	row := i / s.Columns
	x := s.Margin + col*(s.FrameWidth+s.Spacing)
	y := s.Margin + row*(s.FrameHeight+s.Spacing)
	return image.Rect(x, y, x+s.FrameWidth, y+s.FrameHeight)
}

// FrameEvent is a frame-indexed event on a clip. Frame is relative to the
// clip's start frame. Data is an opaque serialized payload handed to a
// downstream dispatcher; the core never interprets it.
type FrameEvent struct {
	Frame int
	Type  string
	Data  string
}

// Clip is a named frame range on one spritesheet. Clips are fully
// populated during a bank load and immutable afterward.
type Clip struct {
	Name       string
	SheetID    string
	StartFrame int
	EndFrame   int
	Framerate  float64
	Loop       bool
	Events     []FrameEvent
}

// FrameCount returns the number of frames in the clip's inclusive range.
func (c *Clip) FrameCount() int {
	if c == nil {
		return 0
	}
	return c.EndFrame - c.StartFrame + 1
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c == nil || c.Framerate <= 0 {
		return 0
	}
	return float64(c.FrameCount()) / c.Framerate
}

// FrameAt maps elapsed seconds to an absolute sheet frame index. Looping
// clips wrap; non-looping clips hold their last frame. Playback is a
// renderer concern; the transition resolver never calls this.
func (c *Clip) FrameAt(elapsed float64) int {
	if c == nil {
		return 0
	}
	n := c.FrameCount()
	if n <= 0 || c.Framerate <= 0 {
		return c.StartFrame
	}
	if elapsed < 0 {
		elapsed = 0
	}
	idx := int(elapsed * c.Framerate)
	if c.Loop {
		idx %= n
	} else if idx >= n {
		idx = n - 1
	}
	return c.StartFrame + idx
}

// Bank catalogs spritesheets and clips by string key. A bank is populated
// once at load time and read-only thereafter; it is shareable across many
// graph consumers as long as loads and reads are temporally separated.
type Bank struct {
	name        string
	description string
	sheets      map[string]*SpriteSheet
	clips       map[string]*Clip
	valid       bool
	err         error
}

// NewBank creates an empty, invalid bank.
func NewBank() *Bank {
	return &Bank{
		sheets: make(map[string]*SpriteSheet),
		clips:  make(map[string]*Clip),
	}
}

// Load parses a bank source and populates the catalog. Textures resolve
// through the provider; a nil provider or a failed resolve leaves the
// sheet's texture nil without failing the load. Entries inserted before a
// mid-parse failure are not rolled back, so a caller may retry a load into
// the same instance.
func (b *Bank) Load(data []byte, textures TextureProvider) bool {
	if b == nil {
		return false
	}
	b.valid = false
	b.err = nil
	if b.sheets == nil {
		b.sheets = make(map[string]*SpriteSheet)
	}
	if b.clips == nil {
		b.clips = make(map[string]*Clip)
	}

	var spec BankSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		b.err = fmt.Errorf("anim: parse bank: %w", err)
		return false
	}
	b.name = spec.BankName
	b.description = spec.Description

	for _, ss := range spec.SpriteSheets {
		sheet := buildSheet(ss)
		if textures != nil && sheet.Path != "" {
			sheet.Texture = textures.GetOrLoad(sheet.ID, sheet.Path)
		}
		b.sheets[sheet.ID] = sheet
	}

	for _, cs := range spec.Animations {
		clip, err := buildClip(cs)
		if err != nil {
			b.err = fmt.Errorf("anim: clip %s: %w", cs.Name, err)
			return false
		}
		b.clips[clip.Name] = clip
	}

	b.valid = true
	return true
}

// LoadFromFile reads a bank source from disk and loads it.
func (b *Bank) LoadFromFile(path string, textures TextureProvider) bool {
	if b == nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		b.valid = false
		b.err = fmt.Errorf("anim: read bank %s: %w", path, err)
		return false
	}
	return b.Load(data, textures)
}

func buildSheet(spec SpriteSheetSpec) *SpriteSheet {
	s := &SpriteSheet{
		ID:          spec.ID,
		Path:        spec.Path,
		FrameWidth:  spec.FrameWidth,
		FrameHeight: spec.FrameHeight,
		Columns:     spec.Columns,
		Rows:        spec.Rows,
		TotalFrames: spec.TotalFrames,
		Spacing:     spec.Spacing,
		Margin:      spec.Margin,
	}
	if s.FrameWidth <= 0 {
		s.FrameWidth = 32
	}
	if s.FrameHeight <= 0 {
		s.FrameHeight = 32
	}
	if s.Columns <= 0 {
		s.Columns = 1
	}
	if s.Rows <= 0 {
		s.Rows = 1
	}
	if s.TotalFrames <= 0 {
		s.TotalFrames = s.Columns * s.Rows
	}
	if spec.Hotspot != nil {
		s.Hotspot = Hotspot{X: spec.Hotspot.X, Y: spec.Hotspot.Y}
	} else {
		s.Hotspot = Hotspot{
			X: float64(s.FrameWidth) / 2,
			Y: float64(s.FrameHeight) / 2,
		}
	}
	return s
}

func buildClip(spec ClipSpec) (*Clip, error) {
	c := &Clip{
		Name:       spec.Name,
		SheetID:    spec.SpriteSheetID,
		StartFrame: spec.StartFrame,
		EndFrame:   spec.EndFrame,
		Framerate:  spec.Framerate,
		Loop:       true,
	}
	if c.Framerate <= 0 {
		c.Framerate = 12.0
	}
	if spec.Looping != nil {
		c.Loop = *spec.Looping
	}
	for _, ev := range spec.Events {
		data, err := opaqueData(ev.Data)
		if err != nil {
			return nil, fmt.Errorf("event at frame %d: %w", ev.Frame, err)
		}
		c.Events = append(c.Events, FrameEvent{
			Frame: ev.Frame,
			Type:  ev.Type,
			Data:  data,
		})
	}
	return c, nil
}

// Name returns the bank's declared name.
func (b *Bank) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Description returns the bank's declared description.
func (b *Bank) Description() string {
	if b == nil {
		return ""
	}
	return b.description
}

// Valid reports whether the last Load completed fully.
func (b *Bank) Valid() bool {
	return b != nil && b.valid
}

// LastError returns the diagnostic from the last failed Load, or nil.
func (b *Bank) LastError() error {
	if b == nil {
		return nil
	}
	return b.err
}

// GetAnimation returns the clip with the given name, or nil.
func (b *Bank) GetAnimation(name string) *Clip {
	if b == nil || name == "" {
		return nil
	}
	return b.clips[name]
}

// GetSpriteSheet returns the spritesheet with the given id, or nil.
func (b *Bank) GetSpriteSheet(id string) *SpriteSheet {
	if b == nil || id == "" {
		return nil
	}
	return b.sheets[id]
}
