package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dungeon/internal/game/component"
)

// Gear is an item an archetype always spawns with.
type Gear struct {
	Name    string `yaml:"name"`
	Power   int    `yaml:"power"`
	Defense int    `yaml:"defense"`
}

// Archetype is a combatant template loaded from YAML.
type Archetype struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Faction string `yaml:"faction"`
	MaxHP   int    `yaml:"max_hp"`
	Defense int    `yaml:"defense"`
	Power   int    `yaml:"power"`
	// Hunger fixes the starting hunger state; empty draws one at spawn.
	Hunger string `yaml:"hunger"`
	Gear   []Gear `yaml:"gear"`

	faction Faction
	hunger  *component.HungerState
}

// ParseFaction converts a faction name to a Faction.
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "delver":
		return Delvers, nil
	case "monster":
		return Monsters, nil
	default:
		return Delvers, fmt.Errorf("unknown faction %q", s)
	}
}

// Validate checks the archetype and resolves its enumerated fields.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// Faction and Hunger (when set) name known values, and every gear item is named.
func (a *Archetype) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("archetype: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if a.MaxHP < 1 {
		return fmt.Errorf("archetype %q: max_hp must be >= 1", a.ID)
	}
	f, err := ParseFaction(a.Faction)
	if err != nil {
		return fmt.Errorf("archetype %q: %w", a.ID, err)
	}
	a.faction = f
	if a.Hunger != "" {
		h, err := component.ParseHungerState(a.Hunger)
		if err != nil {
			return fmt.Errorf("archetype %q: %w", a.ID, err)
		}
		a.hunger = &h
	}
	for i, g := range a.Gear {
		if g.Name == "" {
			return fmt.Errorf("archetype %q: gear %d has no name", a.ID, i)
		}
	}
	return nil
}

// Stats returns the archetype's starting stats at full health.
func (a *Archetype) Stats() component.Stats {
	return component.Stats{MaxHP: a.MaxHP, HP: a.MaxHP, Defense: a.Defense, Power: a.Power}
}

// LoadArchetypeFromBytes parses one archetype. Unknown keys are rejected.
func LoadArchetypeFromBytes(data []byte) (*Archetype, error) {
	var a Archetype
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("parsing archetype YAML: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Bestiary holds archetypes grouped by faction.
type Bestiary struct {
	byFaction map[Faction][]*Archetype
}

// NewBestiary groups archetypes by faction, ordered by ID.
//
// Postcondition: returns an error unless both factions have at least one
// archetype and IDs are unique.
func NewBestiary(archetypes []*Archetype) (*Bestiary, error) {
	b := &Bestiary{byFaction: map[Faction][]*Archetype{}}
	seen := map[string]bool{}
	for _, a := range archetypes {
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate archetype id %q", a.ID)
		}
		seen[a.ID] = true
		b.byFaction[a.faction] = append(b.byFaction[a.faction], a)
	}
	for _, f := range []Faction{Delvers, Monsters} {
		list := b.byFaction[f]
		if len(list) == 0 {
			return nil, fmt.Errorf("bestiary has no %s archetypes", f)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return b, nil
}

// LoadBestiary reads every .yaml/.yml file in dir as an Archetype.
func LoadBestiary(dir string) (*Bestiary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bestiary directory %s: %w", dir, err)
	}
	var archetypes []*Archetype
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading archetype file %s: %w", name, err)
		}
		a, err := LoadArchetypeFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading archetype from %s: %w", name, err)
		}
		archetypes = append(archetypes, a)
	}
	return NewBestiary(archetypes)
}

// DefaultBestiary returns the built-in archetypes.
func DefaultBestiary() *Bestiary {
	archetypes := []*Archetype{
		{ID: "fighter", Name: "Fighter", Faction: "delver", MaxHP: 30, Defense: 2, Power: 5,
			Gear: []Gear{{Name: "Shield", Defense: 1}}},
		{ID: "rogue", Name: "Rogue", Faction: "delver", MaxHP: 22, Defense: 1, Power: 6,
			Gear: []Gear{{Name: "Dagger", Power: 2}}},
		{ID: "orc", Name: "Orc", Faction: "monster", MaxHP: 16, Defense: 1, Power: 4},
		{ID: "goblin", Name: "Goblin", Faction: "monster", MaxHP: 8, Defense: 1, Power: 3,
			Gear: []Gear{{Name: "Rusty Dagger", Power: 1}}},
	}
	for _, a := range archetypes {
		if err := a.Validate(); err != nil {
			panic(err)
		}
	}
	b, err := NewBestiary(archetypes)
	if err != nil {
		panic(err)
	}
	return b
}

// Of returns the archetypes of faction f.
func (b *Bestiary) Of(f Faction) []*Archetype {
	return b.byFaction[f]
}
