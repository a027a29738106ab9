package stamp

// Infinity is the radius of a (pixel, site) cell no circle has reached.
// It is larger than any radius a grid can produce.
const Infinity int32 = 1_000_000_000

// Buffer holds one radius per site for every pixel: Width x Height x Sites
// values in one allocation, indexed (y*Width + x)*Sites + site.
type Buffer struct {
	Width  int
	Height int
	Sites  int
	Radius []int32
}

// NewBuffer returns a buffer with every cell at Infinity
func NewBuffer(width, height, sites int) *Buffer {
	b := &Buffer{
		Width:  width,
		Height: height,
		Sites:  sites,
		Radius: make([]int32, width*height*sites),
	}
	for i := range b.Radius {
		b.Radius[i] = Infinity
	}
	return b
}

// Pixels is the number of grid cells
func (b *Buffer) Pixels() int {
	return b.Width * b.Height
}

// Index of the (x, y, site) cell in Radius
func (b *Buffer) Index(x, y, site int) int {
	return (y*b.Width+x)*b.Sites + site
}

// At returns the radius stored for site at (x, y)
func (b *Buffer) At(x, y, site int) int32 {
	return b.Radius[b.Index(x, y, site)]
}

// Cell returns the per-site radii of pixel p (p = y*Width + x).
// The slice aliases the buffer.
func (b *Buffer) Cell(p int) []int32 {
	return b.Radius[p*b.Sites : (p+1)*b.Sites]
}

// inBounds returns if x,y is on the grid
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}
