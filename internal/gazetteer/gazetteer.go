// Package gazetteer holds the reference data the estate classifier matches
// against: indicator keywords, known estates and administrative names.
// The data is loaded from YAML so locale coverage can grow without a code
// change; the matching rules live in the resolver package.
package gazetteer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultData []byte

// Data is the on-disk shape of a gazetteer file.
type Data struct {
	Locale                 string   `yaml:"locale"`
	Indicators             []string `yaml:"indicators"`
	Estates                []string `yaml:"estates"`
	Administrative         []string `yaml:"administrative"`
	AdministrativeSuffixes []string `yaml:"administrative_suffixes"`
}

// Gazetteer is an immutable, normalized view of Data.
type Gazetteer struct {
	locale         string
	indicators     []string
	estates        []string
	administrative []string
	adminSuffixes  map[string]struct{}
}

// Default returns the gazetteer compiled into the binary.
func Default() *Gazetteer {
	g, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Errorf("embedded gazetteer is invalid: %w", err))
	}
	return g
}

// LoadFile reads and parses a gazetteer YAML file.
func LoadFile(path string) (*Gazetteer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	g, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse gazetteer %s: %w", path, err)
	}
	return g, nil
}

// Parse builds a Gazetteer from YAML.
func Parse(raw []byte) (*Gazetteer, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return New(data)
}

// New normalizes data. A data set without indicators and estates cannot
// classify anything and is rejected.
func New(data Data) (*Gazetteer, error) {
	g := &Gazetteer{
		locale:         data.Locale,
		indicators:     normalizeAll(data.Indicators),
		estates:        normalizeAll(data.Estates),
		administrative: normalizeAll(data.Administrative),
		adminSuffixes:  make(map[string]struct{}, len(data.AdministrativeSuffixes)),
	}
	for _, suffix := range normalizeAll(data.AdministrativeSuffixes) {
		g.adminSuffixes[suffix] = struct{}{}
	}

	if len(g.indicators) == 0 && len(g.estates) == 0 {
		return nil, fmt.Errorf("gazetteer has no indicators and no estates")
	}
	return g, nil
}

func (g *Gazetteer) Locale() string { return g.locale }

// Indicators returns the normalized indicator keywords.
func (g *Gazetteer) Indicators() []string { return g.indicators }

// Estates returns the normalized known-estate names.
func (g *Gazetteer) Estates() []string { return g.estates }

// Administrative returns the normalized administrative/city names.
func (g *Gazetteer) Administrative() []string { return g.administrative }

// IsAdministrativeSuffix reports whether word (already normalized) is a
// generic administrative qualifier such as "county".
func (g *Gazetteer) IsAdministrativeSuffix(word string) bool {
	_, ok := g.adminSuffixes[word]
	return ok
}

// Normalize lower-cases s, folds typographic apostrophes and turns every
// other separator into a single space.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '’' || r == '‘' || r == '`':
			r = '\''
			fallthrough
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		n := Normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
