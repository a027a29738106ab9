package pixelvoronoi

import (
	"fmt"
	"image"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfiguration is matched (via errors.Is) by every error caused by
	// bad configuration or bad site input. It is always raised before any
	// work starts.
	ErrConfiguration = errors.New("invalid configuration")

	validate = newValidator()
)

// Strategy picks the algorithm used to build the diagram.
type Strategy string

const (
	// JumpFlood runs 1+JFA: seed each site into a 3x3 block then do
	// log2(max(W,H)) propagation passes.
	JumpFlood Strategy = "jump-flood"

	// CircleStampLinear grows digital circles around every site & picks, per
	// pixel, the site whose circle got there first by scanning every site.
	CircleStampLinear Strategy = "circle-stamp-linear"

	// CircleStampTree is CircleStampLinear with a pairwise (tree) reduction.
	CircleStampTree Strategy = "circle-stamp-tree"

	// CircleStampSqrt is CircleStampLinear with a two level reduction over
	// chunks of ceil(sqrt(N)) sites.
	CircleStampSqrt Strategy = "circle-stamp-sqrt"
)

// AllStrategies returns every supported strategy
func AllStrategies() []Strategy {
	return []Strategy{JumpFlood, CircleStampLinear, CircleStampTree, CircleStampSqrt}
}

// stamps returns if the strategy grows circles (and so uses a radius mode)
func (s Strategy) stamps() bool {
	return s == CircleStampLinear || s == CircleStampTree || s == CircleStampSqrt
}

// RadiusMode decides how far circles grow for the circle stamp strategies.
type RadiusMode string

const (
	// RadiusFixed grows every site to Config.MaxRadius
	RadiusFixed RadiusMode = "fixed"

	// RadiusAdaptive grows each site to about half the average distance to
	// the other sites. Needs at least two sites & may leave gaps.
	RadiusAdaptive RadiusMode = "adaptive"
)

// Config holds settings for a single solve.
type Config struct {
	// Width & Height of the pixel grid, required
	Width  int `yaml:"width" validate:"gt=0"`
	Height int `yaml:"height" validate:"gt=0"`

	// Strategy to run, required
	Strategy Strategy `yaml:"strategy" validate:"oneof=jump-flood circle-stamp-linear circle-stamp-tree circle-stamp-sqrt"`

	// RadiusMode for circle stamping. Empty means RadiusFixed.
	RadiusMode RadiusMode `yaml:"radius_mode" validate:"omitempty,oneof=fixed adaptive"`

	// MaxRadius circles grow to in RadiusFixed mode.
	// 0 means Width + Height, which reaches every pixel from any site on the grid.
	// Must stay below stamp.Infinity.
	MaxRadius int `yaml:"max_radius" validate:"gte=0,lt=1000000000"`

	// InitialStep of jump flooding on each axis.
	// Zero means half the larger grid dimension on both axes.
	InitialStep image.Point `yaml:"initial_step"`

	// FillGaps keeps growing circles (doubling radii, up to Width + Height)
	// while any pixel is left unassigned. Circle stamp strategies only.
	FillGaps bool `yaml:"fill_gaps"`

	// Workers is the max number of goroutines per phase, 0 for GOMAXPROCS
	Workers int `yaml:"workers" validate:"gte=0"`
}

// DefaultConfig returns a reasonable config; jump flooding on a 512x512 grid.
func DefaultConfig() *Config {
	return &Config{
		Width:      512,
		Height:     512,
		Strategy:   JumpFlood,
		RadiusMode: RadiusFixed,
	}
}

// LoadConfig reads a YAML config file. Unset fields keep DefaultConfig values.
func LoadConfig(fpath string) (*Config, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := DefaultConfig()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fpath)
	}

	return cfg, cfg.Validate()
}

// Validate checks the config on its own (sites are checked by New).
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return configErrorf(fe.Field(), "failed %q check, got %v", tagWithParam(fe), fe.Value())
		}
		return errors.Wrap(err, "validating config")
	}

	if c.InitialStep.X < 0 || c.InitialStep.Y < 0 {
		return configErrorf("initial_step", "components must not be negative, got %v", c.InitialStep)
	}

	return nil
}

// radiusMode returns the effective radius mode
func (c *Config) radiusMode() RadiusMode {
	if c.RadiusMode == "" {
		return RadiusFixed
	}
	return c.RadiusMode
}

// maxRadius returns the effective fixed radius. Rings past Width + Height
// can't touch the grid, so larger radii are cut down to that.
func (c *Config) maxRadius() int {
	limit := c.Width + c.Height
	if c.MaxRadius == 0 || c.MaxRadius > limit {
		return limit
	}
	return c.MaxRadius
}

// ConfigError explains which setting is wrong. It matches ErrConfiguration.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements error
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) succeed
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// configErrorf returns a ConfigError with a stack attached
func configErrorf(field, format string, args ...interface{}) error {
	return errors.WithStack(&ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// tagWithParam renders a validator tag the way it was written, eg. "gt=0"
func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// newValidator reports fields by their yaml names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}
