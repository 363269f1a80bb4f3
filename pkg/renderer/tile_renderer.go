package renderer

import (
	"image"

	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a tile whose sampler is derived from the render seed and the tile ID
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(tileSeed(seed, id)),
	}
}

func tileSeed(seed int64, id int) int64 {
	return seed*7919 + int64(id) + 42
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// TileRenderer renders individual tiles into a shared pixel statistics array
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer backed by the given raytracer
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	return &TileRenderer{raytracer: raytracer}
}

// RenderTile brings every pixel of the tile up to targetSamples samples.
// Tiles never overlap, so concurrent calls on distinct tiles are safe.
func (tr *TileRenderer) RenderTile(tile *Tile, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := tr.raytracer.RenderBounds(tile.Bounds, pixelStats, tile.Sampler, targetSamples)
	instrumentTile(stats)
	return stats
}

// TileImage converts the accumulated samples inside bounds into an image
// positioned at the origin.
func TileImage(bounds image.Rectangle, pixelStats [][]PixelStats) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pixelStats[y][x]
			if stats.SampleCount > 0 {
				img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ColorToRGBA(stats.GetColor()))
			}
		}
	}

	return img
}
