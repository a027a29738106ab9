package pixelvoronoi

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"

	"github.com/voidshard/pixelvoronoi/internal/encoding"
)

// Palette says how to colour a diagram.
type Palette struct {
	// Sites holds a colour per site index
	Sites []color.Color

	// Unassigned pixels are painted this colour
	Unassigned color.Color

	// Markers are drawn over site centres when MarkerRadius > 0
	Markers      color.Color
	MarkerRadius float64
}

// RandomPalette returns a palette of n random opaque colours.
// The same seed always gives the same colours.
func RandomPalette(seed int64, n int) *Palette {
	rng := rand.New(rand.NewSource(seed))

	sites := make([]color.Color, n)
	for i := range sites {
		sites[i] = color.RGBA{
			R: uint8(rng.Intn(224) + 32),
			G: uint8(rng.Intn(224) + 32),
			B: uint8(rng.Intn(224) + 32),
			A: 255,
		}
	}

	return &Palette{
		Sites:        sites,
		Unassigned:   colornames.Black,
		Markers:      colornames.White,
		MarkerRadius: 2,
	}
}

// ColourImage paints each pixel with the colour of the site that owns it.
func (d *Diagram) ColourImage(p *Palette) (*image.RGBA, error) {
	if p == nil {
		return nil, errors.New("palette required")
	}
	if len(p.Sites) < d.Sites {
		return nil, errors.Errorf("palette has %d colours for %d sites", len(p.Sites), d.Sites)
	}

	unassigned := p.Unassigned
	if unassigned == nil {
		unassigned = colornames.Black
	}

	im := image.NewRGBA(d.Bounds())
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			idx := d.Index[y*d.Width+x]
			if idx == Unassigned {
				im.Set(x, y, unassigned)
			} else {
				im.Set(x, y, p.Sites[idx])
			}
		}
	}

	return im, nil
}

// IndexImage returns a greyscale image where site i of N is shaded i/N of
// full brightness. Unassigned pixels use the given shade.
func (d *Diagram) IndexImage(unassigned color.Gray16) *image.Gray16 {
	im := image.NewGray16(d.Bounds())
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			idx := d.Index[y*d.Width+x]
			if idx == Unassigned || d.Sites == 0 {
				im.SetGray16(x, y, unassigned)
				continue
			}
			shade := uint64(idx) * 0xffff / uint64(d.Sites)
			im.SetGray16(x, y, color.Gray16{Y: uint16(shade)})
		}
	}
	return im
}

// SavePNG writes the coloured diagram to disk, with site markers if the
// palette asks for them.
func (d *Diagram) SavePNG(fpath string, p *Palette) error {
	im, err := d.ColourImage(p)
	if err != nil {
		return err
	}

	ctx := gg.NewContextForRGBA(im)
	if p.MarkerRadius > 0 && p.Markers != nil {
		ctx.SetColor(p.Markers)
		for _, c := range d.Centres {
			ctx.DrawCircle(float64(c.X)+0.5, float64(c.Y)+0.5, p.MarkerRadius)
			ctx.Fill()
		}
	}

	return errors.Wrapf(ctx.SavePNG(fpath), "saving %s", fpath)
}

// SaveIndexPNG writes IndexImage to disk (unassigned pixels are black)
func (d *Diagram) SaveIndexPNG(fpath string) error {
	ctx := gg.NewContextForImage(d.IndexImage(color.Gray16{}))
	return errors.Wrapf(ctx.SavePNG(fpath), "saving %s", fpath)
}

// RawImage encodes the diagram losslessly into a 16 bit image, see
// encoding.PackIndex.
func (d *Diagram) RawImage() *image.RGBA64 {
	im := image.NewRGBA64(d.Bounds())
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			im.SetRGBA64(x, y, encoding.PackIndex(d.Index[y*d.Width+x]))
		}
	}
	return im
}

// SaveRaw writes RawImage to disk as a PNG.
// Use LoadRaw to read it back.
func (d *Diagram) SaveRaw(fpath string) error {
	return errors.Wrapf(savePNG(fpath, d.RawImage()), "saving %s", fpath)
}

// LoadRaw reads a diagram written by SaveRaw.
// Site centres & the strategy aren't stored, so come back empty; the site
// count is taken to be the highest index + 1.
func LoadRaw(fpath string) (*Diagram, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrap(err, "opening raw diagram")
	}
	defer f.Close()

	im, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", fpath)
	}

	bnds := im.Bounds()
	w, h := bnds.Dx(), bnds.Dy()

	var at func(x, y int) color.RGBA64
	if im64, ok := im.(image.RGBA64Image); ok {
		at = im64.RGBA64At
	} else {
		at = func(x, y int) color.RGBA64 {
			return color.RGBA64Model.Convert(im.At(x, y)).(color.RGBA64)
		}
	}

	index := make([]int32, w*h)
	sites := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := encoding.UnpackIndex(at(bnds.Min.X+x, bnds.Min.Y+y))
			if idx < Unassigned {
				return nil, errors.Errorf("pixel (%d,%d) holds no site index", x, y)
			}
			index[y*w+x] = idx
			sites = maxint(sites, int(idx)+1)
		}
	}

	return &Diagram{Width: w, Height: h, Sites: sites, Index: index}, nil
}
