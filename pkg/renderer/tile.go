package renderer

import "image"

// Tile is a rectangular region of the image rendered by one task per pass
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid splits a width x height image into tiles of at most tileSize pixels per
// edge, row by row. Edge tiles are clipped to the image.
func NewTileGrid(width, height, tileSize int) []Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)),
			})
		}
	}
	return tiles
}

// tileSeed derives the sampler seed of one tile in one pass. The mix is a splitmix64
// finalizer so neighbouring tiles and passes get unrelated streams.
func tileSeed(seed int64, pass, tileID int) int64 {
	z := uint64(seed) + 0x9e3779b97f4a7c15*uint64(pass+1) + 0xbf58476d1ce4e5b9*uint64(tileID+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
