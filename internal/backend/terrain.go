package backend

import (
	"fmt"
	"log"

	"github.com/aquilax/go-perlin"

	"github.com/smasonuk/wirecraft"
)

const (
	terrainAlpha   = 2.0
	terrainBeta    = 2.0
	terrainOctaves = 3
	// terrainScale spreads the noise so neighbouring columns differ gently.
	terrainScale = 0.15
)

// TerrainOptions sizes a generated heightmap world.
type TerrainOptions struct {
	Width     int
	Depth     int
	MaxHeight int
	Seed      int64
	Block     string
}

// GenerateTerrain fills s with columns of Block structures whose heights
// follow Perlin noise. The patch is centred on the origin with its lowest
// layer at y = 0.
func GenerateTerrain(s *Store, opts TerrainOptions) error {
	if opts.Width <= 0 || opts.Depth <= 0 || opts.MaxHeight <= 0 {
		return fmt.Errorf("terrain %dx%d height %d: dimensions must be positive", opts.Width, opts.Depth, opts.MaxHeight)
	}
	if opts.Block == "" {
		opts.Block = "cube"
	}
	if _, state := s.templates.Get(opts.Block); state != wirecraft.TemplateLoaded {
		return fmt.Errorf("terrain block %q: %w", opts.Block, ErrNotFound)
	}

	noise := perlin.NewPerlin(terrainAlpha, terrainBeta, terrainOctaves, opts.Seed)
	placed := 0
	for x := 0; x < opts.Width; x++ {
		for z := 0; z < opts.Depth; z++ {
			h := columnHeight(noise.Noise2D(float64(x)*terrainScale, float64(z)*terrainScale), opts.MaxHeight)
			for y := 0; y < h; y++ {
				s.Place(wirecraft.GridKey{X: x - opts.Width/2, Y: y, Z: z - opts.Depth/2}, opts.Block)
				placed++
			}
		}
	}
	log.Printf("Generated terrain %dx%d (seed %d): %d blocks", opts.Width, opts.Depth, opts.Seed, placed)
	return nil
}

// columnHeight maps noise, roughly in [-1, 1], to a height in [1, maxHeight].
func columnHeight(n float64, maxHeight int) int {
	h := int((n+1)/2*float64(maxHeight)) + 1
	return max(1, min(h, maxHeight))
}
