package atlas

// Cursor is the packing state of a Builder.
//
// Tiles are placed in rings around the fully occupied square of side
// CompletedSize (in tile units). A ring first extends the row directly below
// the square (CompletedSize slots), then the column directly to its right
// (CompletedSize+1 slots), leaving a square of side CompletedSize+1.
type Cursor struct {
	CompletedSize int // side of the fully packed square, in tiles
	Position      int // offset within the ring being filled
}

// RingLen returns the number of slots in the ring being filled.
func (c Cursor) RingLen() int {
	return 2*c.CompletedSize + 1
}

// Slot returns the tile-unit coordinates of the next free slot.
func (c Cursor) Slot() (tx, ty int) {
	if c.Position < c.CompletedSize {
		return c.Position, c.CompletedSize
	}
	return c.CompletedSize, c.Position - c.CompletedSize
}

// Advance moves to the next slot, starting a new ring when the current one
// is full.
func (c *Cursor) Advance() {
	c.Position++
	if c.Position >= c.RingLen() {
		c.Position = 0
		c.CompletedSize++
	}
}
