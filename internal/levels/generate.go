package levels

import (
	"fmt"

	opensimplex "github.com/ojrac/opensimplex-go"

	"tileworld/internal/engine"
	"tileworld/internal/rules"
	"tileworld/pkg/core"
)

// Generator describes noise-generated terrain plus scattered kinds.
type Generator struct {
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	Seed    int64     `yaml:"seed"`
	Scale   float64   `yaml:"scale"`   // noise frequency per cell
	Octaves int       `yaml:"octaves"` // 0 means 3
	Border  string    `yaml:"border"`  // optional terrain kind around the edge
	Bands   []Band    `yaml:"bands"`
	Scatter []Scatter `yaml:"scatter"`
}

// Band assigns Kind to cells whose noise value is below Below. Bands are
// tried in order; the last one catches everything above.
type Band struct {
	Below float64 `yaml:"below"`
	Kind  string  `yaml:"kind"`
}

// Scatter places Kind on cells currently holding On (the default tile when
// empty): exactly Count cells when Count > 0, otherwise each with Chance.
type Scatter struct {
	Kind   string  `yaml:"kind"`
	On     string  `yaml:"on"`
	Count  int     `yaml:"count"`
	Chance float64 `yaml:"chance"`
}

func (g *Generator) check(cat *rules.Catalog) error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrBadGenerator, g.Width, g.Height)
	}
	if g.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrBadGenerator)
	}
	if len(g.Bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrBadGenerator)
	}
	terrain := func(name string) error {
		k, ok := cat.KindByName(name)
		if !ok {
			return fmt.Errorf("%w: %q", rules.ErrUnknownKind, name)
		}
		if int(k) >= cat.FixedKinds() {
			return fmt.Errorf("%w: %q is not a terrain kind", ErrBadGenerator, name)
		}
		return nil
	}
	for _, b := range g.Bands {
		if err := terrain(b.Kind); err != nil {
			return err
		}
	}
	if g.Border != "" {
		if err := terrain(g.Border); err != nil {
			return err
		}
	}
	for _, s := range g.Scatter {
		if _, ok := cat.KindByName(s.Kind); !ok {
			return fmt.Errorf("%w: %q", rules.ErrUnknownKind, s.Kind)
		}
		if s.On != "" {
			if err := terrain(s.On); err != nil {
				return err
			}
		}
		if s.Count < 0 || s.Chance < 0 || s.Chance > 1 {
			return fmt.Errorf("%w: scatter %q count=%d chance=%v", ErrBadGenerator, s.Kind, s.Count, s.Chance)
		}
	}
	return nil
}

// generate is deterministic for a given catalog and seed.
func (g *Generator) generate(cat *rules.Catalog, seed int64) []engine.Kind {
	kind := func(name string) engine.Kind {
		k, _ := cat.KindByName(name)
		return k
	}
	octaves := g.Octaves
	if octaves <= 0 {
		octaves = 3
	}

	noise := opensimplex.NewNormalized(seed)
	placed := make([]engine.Kind, g.Width*g.Height)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			v := octaveNoise(noise, float64(col), float64(row), octaves, g.Scale, 0.5)
			k := kind(g.Bands[len(g.Bands)-1].Kind)
			for _, b := range g.Bands {
				if v < b.Below {
					k = kind(b.Kind)
					break
				}
			}
			if g.Border != "" && (row == 0 || col == 0 || row == g.Height-1 || col == g.Width-1) {
				k = kind(g.Border)
			}
			placed[row*g.Width+col] = k
		}
	}

	rng := core.NewRNG(seed)
	for _, s := range g.Scatter {
		on := cat.DefaultTile()
		if s.On != "" {
			on = kind(s.On)
		}
		var cells []int
		for i, k := range placed {
			if k == on {
				cells = append(cells, i)
			}
		}
		target := kind(s.Kind)
		if s.Count > 0 {
			rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
			if len(cells) > s.Count {
				cells = cells[:s.Count]
			}
			for _, i := range cells {
				placed[i] = target
			}
			continue
		}
		for _, i := range cells {
			if rng.Chance(s.Chance) {
				placed[i] = target
			}
		}
	}
	return placed
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
