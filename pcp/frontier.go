package pcp

// Side tells which concatenation is ahead after a partial tile sequence.
type Side byte

const (
	// Equal: both concatenations are identical so far
	Equal Side = '='
	// UpAhead: the up concatenation is longer by Suffix
	UpAhead Side = 'u'
	// DownAhead: the down concatenation is longer by Suffix
	DownAhead Side = 'd'
)

// Frontier is the normalized overhang between the up and down strings built
// so far. The zero value is the start state. Suffix is empty exactly when
// Side is Equal.
type Frontier struct {
	Side   Side
	Suffix string
}

// Start returns the empty frontier.
func Start() Frontier {
	return Frontier{Side: Equal}
}

// Key is the store key of the frontier: the side byte, '|', then the suffix.
func (f Frontier) Key() string {
	side := f.Side
	if side == 0 {
		side = Equal
	}
	return string(side) + "|" + f.Suffix
}

func (f Frontier) String() string {
	return f.Key()
}

// Outcome classifies the result of placing a tile on a frontier.
type Outcome int

const (
	// Mismatch: the strings disagree within the shorter one; the branch is dead
	Mismatch Outcome = iota
	// Match: both concatenations are identical after the tile
	Match
	// Partial: one side overhangs the other
	Partial
)

// Extend places tile t on the frontier. For Partial the returned frontier is
// the new overhang; for Match it is the start state.
func (f Frontier) Extend(t Tile) (Frontier, Outcome) {
	up, down := t.Up, t.Down
	switch f.Side {
	case UpAhead:
		up = f.Suffix + up
	case DownAhead:
		down = f.Suffix + down
	}

	l := commonPrefixLen(up, down)
	if l < min(len(up), len(down)) {
		return Frontier{}, Mismatch
	}
	if l == len(up) && l == len(down) {
		return Start(), Match
	}
	if l == len(up) {
		return Frontier{Side: DownAhead, Suffix: down[l:]}, Partial
	}
	return Frontier{Side: UpAhead, Suffix: up[l:]}, Partial
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	l := 0
	for l < n && a[l] == b[l] {
		l++
	}
	return l
}
