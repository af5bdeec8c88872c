// internal/phrases/sets.go
//
// Vocabulary set management for the matching game.
//
// Responsibilities:
//   - Load vocabulary sets from an environment-provided YAML file or fall back
//     to the embedded default library.
//   - Validate sets (unique positive IDs, at least one usable phrase each).
//   - Supply lookups used by the HTTP layer, the daily challenge and the CLI.
//
// Initialization behavior (Init):
//  1. If PHRASES_FILE is set, read that YAML file.
//  2. Otherwise use assets/phrases.yaml embedded in the binary.
//
// Environment variables:
//
//	PHRASES_FILE=/path/to/phrases.yaml
//
// Initialization is run once (sync.Once).

package phrases

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vlinh/hanzimatch/apps/go-server/assets"
)

// Phrase is one learnable entry with its reading and translation.
type Phrase struct {
	Phrase     string `yaml:"phrase" json:"phrase"`
	Pinyin     string `yaml:"pinyin" json:"pinyin"`
	Vietnamese string `yaml:"vietnamese" json:"vietnamese"`
}

// Set is a named vocabulary list; each set backs one game board.
type Set struct {
	ID   int      `yaml:"id" json:"id"`
	Name string   `yaml:"name" json:"name"`
	List []Phrase `yaml:"list" json:"list"`
}

// Texts returns the phrase texts of the set in order.
func (s Set) Texts() []string {
	out := make([]string, len(s.List))
	for i, p := range s.List {
		out[i] = p.Phrase
	}
	return out
}

// Dictionary builds the engine dictionary for this set.
func (s Set) Dictionary() (Dictionary, error) {
	return NewDictionary(s.Texts()...)
}

// ErrSetNotFound is returned by Set for an unknown ID.
var ErrSetNotFound = errors.New("phrases: set not found")

type library struct {
	Sets []Set `yaml:"sets"`
}

var (
	initOnce   sync.Once
	sets       []Set       // sorted by ID
	setsByID   map[int]int // ID -> index into sets
	initialErr error
)

// Init loads the vocabulary sets exactly once.
func Init() error {
	initOnce.Do(func() {
		var raw []byte
		var err error
		if path := os.Getenv("PHRASES_FILE"); path != "" {
			raw, err = os.ReadFile(path)
		} else {
			raw, err = assets.PhraseSets()
		}
		if err != nil {
			initialErr = fmt.Errorf("phrases: read library: %w", err)
			return
		}
		sets, setsByID, initialErr = parseLibrary(raw)
	})
	return initialErr
}

// parseLibrary decodes and validates a YAML vocabulary library.
func parseLibrary(raw []byte) ([]Set, map[int]int, error) {
	var lib library
	if err := yaml.Unmarshal(raw, &lib); err != nil {
		return nil, nil, fmt.Errorf("phrases: decode library: %w", err)
	}
	if len(lib.Sets) == 0 {
		return nil, nil, errors.New("phrases: library has no sets")
	}
	sort.SliceStable(lib.Sets, func(i, j int) bool { return lib.Sets[i].ID < lib.Sets[j].ID })

	byID := make(map[int]int, len(lib.Sets))
	for i, s := range lib.Sets {
		if s.ID <= 0 {
			return nil, nil, fmt.Errorf("phrases: set %q has invalid id %d", s.Name, s.ID)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, nil, fmt.Errorf("phrases: duplicate set id %d", s.ID)
		}
		if _, err := s.Dictionary(); err != nil {
			return nil, nil, fmt.Errorf("phrases: set %d: %w", s.ID, err)
		}
		byID[s.ID] = i
	}
	return lib.Sets, byID, nil
}

// Sets returns a copy of all loaded vocabulary sets ordered by ID.
func Sets() []Set {
	out := make([]Set, len(sets))
	for i, s := range sets {
		s.List = slices.Clone(s.List)
		out[i] = s
	}
	return out
}

// Get returns the set with the given ID.
func Get(id int) (Set, error) {
	i, ok := setsByID[id]
	if !ok {
		return Set{}, fmt.Errorf("%w: %d", ErrSetNotFound, id)
	}
	s := sets[i]
	s.List = slices.Clone(s.List)
	return s, nil
}

// At returns the set at position i in ID order (used by the daily rotation).
func At(i int) (Set, bool) {
	if i < 0 || i >= len(sets) {
		return Set{}, false
	}
	s := sets[i]
	s.List = slices.Clone(s.List)
	return s, true
}

// Stats returns counts of loaded data: (sets, phrases).
func Stats() (setCount int, phraseCount int) {
	for _, s := range sets {
		phraseCount += len(s.List)
	}
	return len(sets), phraseCount
}
