package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"unicode"

	"github.com/BurntSushi/toml"
)

// AllSelector selects every configured category set.
const AllSelector = "all"

// CategorySpec names a Wikipedia category and the wiki language it lives in.
type CategorySpec struct {
	Name string `toml:"name"`
	Lang string `toml:"lang"`
}

// Sets maps a selector name to its categories.
type Sets map[string][]CategorySpec

// DefaultSets returns the built-in russian and world presets.
func DefaultSets() Sets {
	return Sets{
		"russian": {
			{Name: "Достопримечательности Москвы", Lang: "ru"},
			{Name: "Достопримечательности Санкт-Петербурга", Lang: "ru"},
			{Name: "Музеи России", Lang: "ru"},
			{Name: "Памятники России", Lang: "ru"},
			{Name: "Театры России", Lang: "ru"},
			{Name: "Дворцы России", Lang: "ru"},
		},
		"world": {
			{Name: "World Heritage Sites", Lang: "en"},
			{Name: "Tourist attractions in Paris", Lang: "en"},
			{Name: "Landmarks in New York City", Lang: "en"},
			{Name: "Tourist attractions in Rome", Lang: "en"},
			{Name: "Museums in London", Lang: "en"},
			{Name: "Palaces", Lang: "en"},
		},
	}
}

type setsFile struct {
	Sets Sets `toml:"sets"`
}

// LoadSets returns DefaultSets overlaid with the sets defined in a TOML file:
//
//	[sets]
//	london = [{ name = "Museums in London", lang = "en" }]
//
// A missing file is not an error. Categories without a language get one
// guessed from their script.
func LoadSets(path string) (Sets, error) {
	sets := DefaultSets()
	if path == "" {
		return sets, nil
	}

	var file setsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sets, nil
		}
		return nil, fmt.Errorf("parsing category sets %s: %w", path, err)
	}

	for name, specs := range file.Sets {
		for i := range specs {
			if specs[i].Lang == "" {
				specs[i].Lang = guessLang(specs[i].Name)
			}
		}
		sets[name] = specs
	}
	return sets, nil
}

// Names returns the selector names in sorted order.
func (s Sets) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the categories for selector. AllSelector concatenates every
// set in name order unless a set with that name is defined.
func (s Sets) Resolve(selector string) ([]CategorySpec, error) {
	if specs, ok := s[selector]; ok {
		return specs, nil
	}
	if selector != AllSelector {
		return nil, fmt.Errorf("unknown category set %q", selector)
	}
	var all []CategorySpec
	for _, name := range s.Names() {
		all = append(all, s[name]...)
	}
	return all, nil
}

func guessLang(name string) string {
	for _, r := range name {
		if unicode.Is(unicode.Cyrillic, r) {
			return "ru"
		}
	}
	return "en"
}
