package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/animgraph/assets"
)

// Textures caches loaded spritesheet images by id and implements the
// texture-provider capability a bank load consumes. Each consumer owns its
// own instance; there is no process-wide registry.
type Textures struct {
	images map[string]*ebiten.Image
}

// NewTextures creates an empty texture cache.
func NewTextures() *Textures {
	return &Textures{images: make(map[string]*ebiten.Image)}
}

// Register stores an image by id.
func (t *Textures) Register(id string, img *ebiten.Image) {
	if t == nil || id == "" || img == nil {
		return
	}
	if t.images == nil {
		t.images = make(map[string]*ebiten.Image)
	}
	t.images[id] = img
}

// Get returns a cached image by id.
func (t *Textures) Get(id string) *ebiten.Image {
	if t == nil || id == "" {
		return nil
	}
	return t.images[id]
}

// GetOrLoad returns the cached image for id, loading it from path on first
// use. A path that cannot be resolved logs once and returns nil; bank loads
// tolerate the nil handle.
func (t *Textures) GetOrLoad(id, path string) *ebiten.Image {
	if t == nil || id == "" {
		return nil
	}
	if img := t.images[id]; img != nil {
		return img
	}
	img, err := loadImageFromAssetsOrFS(path)
	if err != nil {
		log.Printf("render: texture %s: %v", id, err)
		return nil
	}
	if t.images == nil {
		t.images = make(map[string]*ebiten.Image)
	}
	t.images[id] = img
	return img
}

func loadImageFromAssetsOrFS(path string) (*ebiten.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("empty image path")
	}
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			if im, _, err := image.Decode(bytes.NewReader(b)); err == nil {
				return ebiten.NewImageFromImage(im), nil
			}
		}
	}
	return nil, fmt.Errorf("failed to load image %s", path)
}
