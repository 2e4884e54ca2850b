package pcp

import (
	"strings"
)

// Tile is one (up, down) string pair. Its index is its 1-based position in
// the problem's tile list.
type Tile struct {
	Up   string `json:"up" yaml:"up"`
	Down string `json:"down" yaml:"down"`
}

func (t Tile) String() string {
	return t.Up + "/" + t.Down
}

// ParseTiles reads whitespace-separated "up/down" tokens. Either half may be
// empty, but every token must contain exactly one '/'.
func ParseTiles(text string) ([]Tile, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, ErrNoTiles
	}

	tiles := make([]Tile, 0, len(fields))
	for i, tok := range fields {
		parts := strings.Split(tok, "/")
		if len(parts) != 2 {
			return nil, &ValidationError{
				Field:    "tile",
				Token:    tok,
				Position: i + 1,
				Reason:   "expected up/down",
			}
		}
		tiles = append(tiles, Tile{Up: parts[0], Down: parts[1]})
	}
	return tiles, nil
}

// FormatTiles is the inverse of ParseTiles.
func FormatTiles(tiles []Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Concat joins the up and down strings of the tiles named by the 1-based
// indices in path. Out-of-range indices are skipped.
func Concat(tiles []Tile, path []int) (up, down string) {
	var ub, db strings.Builder
	for _, idx := range path {
		if idx < 1 || idx > len(tiles) {
			continue
		}
		ub.WriteString(tiles[idx-1].Up)
		db.WriteString(tiles[idx-1].Down)
	}
	return ub.String(), db.String()
}

// Verify reports whether path is a non-empty sequence of valid indices whose
// up and down concatenations are equal.
func Verify(tiles []Tile, path []int) bool {
	if len(path) == 0 {
		return false
	}
	for _, idx := range path {
		if idx < 1 || idx > len(tiles) {
			return false
		}
	}
	up, down := Concat(tiles, path)
	return up == down
}
