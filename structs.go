package pixelvoronoi

import (
	"encoding/json"
	"image"
	"os"

	"github.com/boljen/go-bitmap"
)

// Unassigned marks a pixel no site claimed.
// Only circle stamping with radii that are too small leaves these.
const Unassigned = -1

// Diagram is a discrete Voronoi diagram: for every pixel the index of the
// site it belongs to.
type Diagram struct {
	Width  int
	Height int

	// Sites is the number of input sites
	Sites int

	// Strategy that built the diagram
	Strategy Strategy `json:",omitempty"`

	// Centres holds the pixel each site sits on, by site index
	Centres []image.Point `json:",omitempty"`

	// Index is row major; Index[y*Width+x] is a site index or Unassigned
	Index []int32
}

func newDiagram(w, h int, s Strategy, centres []image.Point, index []int32) *Diagram {
	return &Diagram{
		Width:    w,
		Height:   h,
		Sites:    len(centres),
		Strategy: s,
		Centres:  append([]image.Point(nil), centres...),
		Index:    index,
	}
}

// Bounds of the diagram
func (d *Diagram) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

// At returns the site owning x,y or Unassigned.
// Points off the grid are Unassigned.
func (d *Diagram) At(x, y int) int {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return Unassigned
	}
	return int(d.Index[y*d.Width+x])
}

// Unassigned returns how many pixels no site claimed
func (d *Diagram) Unassigned() int {
	return countUnassigned(d.Index)
}

// Coverage returns a bitmap (one bit per pixel, row major) with a bit set
// for each assigned pixel.
func (d *Diagram) Coverage() bitmap.Bitmap {
	bm := bitmap.New(len(d.Index))
	for i, v := range d.Index {
		if v != Unassigned {
			bm.Set(i, true)
		}
	}
	return bm
}

// CellSizes returns the number of pixels owned by each site
func (d *Diagram) CellSizes() []int {
	sizes := make([]int, d.Sites)
	for _, v := range d.Index {
		if v >= 0 && int(v) < d.Sites {
			sizes[v]++
		}
	}
	return sizes
}

// Equal returns if both diagrams assign every pixel the same way
func (d *Diagram) Equal(o *Diagram) bool {
	if o == nil || d.Width != o.Width || d.Height != o.Height || d.Sites != o.Sites {
		return false
	}
	if len(d.Index) != len(o.Index) {
		return false
	}
	for i := range d.Index {
		if d.Index[i] != o.Index[i] {
			return false
		}
	}
	return true
}

// Diff returns the number of pixels assigned differently in o.
// Diagrams of different sizes differ everywhere.
func (d *Diagram) Diff(o *Diagram) int {
	if o == nil || len(d.Index) != len(o.Index) || d.Width != o.Width {
		return len(d.Index)
	}
	count := 0
	for i := range d.Index {
		if d.Index[i] != o.Index[i] {
			count++
		}
	}
	return count
}

// JSON returns the diagram as json.
func (d *Diagram) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// SaveJSON writes a json file to the given path.
func (d *Diagram) SaveJSON(fpath string) error {
	data, err := d.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, data, 0644)
}

func countUnassigned(index []int32) int {
	count := 0
	for _, v := range index {
		if v == Unassigned {
			count++
		}
	}
	return count
}
