// Package levels loads level documents: a rule catalog reference plus either
// a hand-drawn map or a noise generator description.
package levels

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"tileworld/internal/engine"
	"tileworld/internal/rules"
)

var (
	// ErrNoRows reports a level with neither rows nor a generator.
	ErrNoRows = errors.New("levels: no rows")
	// ErrUnknownGlyph reports a map glyph missing from the legend.
	ErrUnknownGlyph = errors.New("levels: unknown glyph")
	// ErrRaggedRows reports map rows of different widths.
	ErrRaggedRows = errors.New("levels: ragged rows")
	// ErrBadGenerator reports an unusable generate section.
	ErrBadGenerator = errors.New("levels: bad generator")
)

type document struct {
	Name     string            `yaml:"name"`
	Rules    string            `yaml:"rules"`
	Legend   map[string]string `yaml:"legend"`
	Rows     []string          `yaml:"rows"`
	Generate *Generator        `yaml:"generate"`
}

// Level is a parsed level bound to its compiled catalog.
type Level struct {
	Name    string
	Path    string
	Catalog *rules.Catalog

	width, height int
	placed        []engine.Kind
	gen           *Generator
}

// Load reads the level at path. The rule catalog is resolved relative to the
// level file.
func Load(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lvl, err := Parse(raw, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lvl.Path = path
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return lvl, nil
}

// Parse decodes a level document and loads its catalog from dir.
func Parse(data []byte, dir string) (*Level, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if doc.Rules == "" {
		return nil, fmt.Errorf("level has no rules catalog")
	}
	rulesPath := doc.Rules
	if !filepath.IsAbs(rulesPath) {
		rulesPath = filepath.Join(dir, rulesPath)
	}
	cat, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	return build(&doc, cat)
}

func build(doc *document, cat *rules.Catalog) (*Level, error) {
	lvl := &Level{Name: doc.Name, Catalog: cat}

	if doc.Generate != nil {
		if err := doc.Generate.check(cat); err != nil {
			return nil, err
		}
		lvl.gen = doc.Generate
		lvl.width, lvl.height = doc.Generate.Width, doc.Generate.Height
		return lvl, nil
	}
	if len(doc.Rows) == 0 {
		return nil, ErrNoRows
	}

	legend, err := buildLegend(doc.Legend, cat)
	if err != nil {
		return nil, err
	}
	lvl.width = utf8.RuneCountInString(doc.Rows[0])
	lvl.height = len(doc.Rows)
	lvl.placed = make([]engine.Kind, 0, lvl.width*lvl.height)
	for r, line := range doc.Rows {
		if utf8.RuneCountInString(line) != lvl.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedRows, r, utf8.RuneCountInString(line), lvl.width)
		}
		for _, ch := range line {
			k, ok := legend[ch]
			if !ok {
				return nil, fmt.Errorf("%w: %q in row %d", ErrUnknownGlyph, ch, r)
			}
			lvl.placed = append(lvl.placed, k)
		}
	}
	return lvl, nil
}

// buildLegend starts from the catalog glyphs and applies the level's
// overrides.
func buildLegend(overrides map[string]string, cat *rules.Catalog) (map[rune]engine.Kind, error) {
	legend := make(map[rune]engine.Kind, cat.TotalKinds()+len(overrides))
	for i, info := range cat.Kinds() {
		if _, taken := legend[info.Glyph]; !taken {
			legend[info.Glyph] = engine.Kind(i)
		}
	}
	for glyph, name := range overrides {
		ch, size := utf8.DecodeRuneInString(glyph)
		if size == 0 || size != len(glyph) {
			return nil, fmt.Errorf("%w: legend key %q is not a single glyph", ErrUnknownGlyph, glyph)
		}
		k, ok := cat.KindByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: legend %q -> %q", rules.ErrUnknownKind, glyph, name)
		}
		legend[ch] = k
	}
	return legend, nil
}

// Size returns the level dimensions in cells.
func (l *Level) Size() (w, h int) { return l.width, l.height }

// Generated reports whether the level comes from a generator.
func (l *Level) Generated() bool { return l.gen != nil }

// Placed returns the kinds placed on the map in row-major order. Generated
// levels use seed, or the generator's own seed when seed is 0.
func (l *Level) Placed(seed int64) []engine.Kind {
	if l.gen == nil {
		return append([]engine.Kind(nil), l.placed...)
	}
	if seed == 0 {
		seed = l.gen.Seed
	}
	return l.gen.generate(l.Catalog, seed)
}

// Build returns a fresh world for the level.
func (l *Level) Build(seed int64) *engine.World {
	return engine.NewWorld(l.Catalog, l.width, l.height, l.Placed(seed), l.Catalog.DefaultTile())
}
