package mapgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile overrides the level shape for a band of depths.
type Profile struct {
	Name        string `yaml:"name"`
	MinDepth    int    `yaml:"min_depth"`
	MaxDepth    int    `yaml:"max_depth"` // 0 means unbounded
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	MaxRooms    int    `yaml:"max_rooms"`
	MinRoomSize int    `yaml:"min_room_size"`
	MaxRoomSize int    `yaml:"max_room_size"`
}

// Params converts the profile to generation parameters.
func (p Profile) Params() Params {
	return Params{
		Width:       p.Width,
		Height:      p.Height,
		MaxRooms:    p.MaxRooms,
		MinRoomSize: p.MinRoomSize,
		MaxRoomSize: p.MaxRoomSize,
	}
}

// covers reports whether depth falls in the profile's band.
func (p Profile) covers(depth int) bool {
	return depth >= p.MinDepth && (p.MaxDepth == 0 || depth <= p.MaxDepth)
}

// Validate checks the depth band and the embedded parameters.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if p.MinDepth < 1 {
		return fmt.Errorf("profile %q: min_depth %d must be at least 1", p.Name, p.MinDepth)
	}
	if p.MaxDepth != 0 && p.MaxDepth < p.MinDepth {
		return fmt.Errorf("profile %q: max_depth %d is below min_depth %d", p.Name, p.MaxDepth, p.MinDepth)
	}
	if err := p.Params().Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return nil
}

// LoadProfileFromBytes parses and validates one profile. Unknown keys are rejected.
func LoadProfileFromBytes(data []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("validating profile: %w", err)
	}
	return p, nil
}

// LoadProfiles reads every .yaml/.yml file in dir as a Profile.
//
// Postcondition: returns at least one profile or an error.
func LoadProfiles(dir string) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading profile directory %s: %w", dir, err)
	}

	var profiles []Profile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading profile file %s: %w", name, err)
		}
		p, err := LoadProfileFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading profile from %s: %w", name, err)
		}
		profiles = append(profiles, p)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile files found in %s", dir)
	}
	return profiles, nil
}

// ProfileSet selects generation parameters by depth.
type ProfileSet struct {
	profiles []Profile
	fallback Params
}

// NewProfileSet orders profiles by MinDepth and rejects overlapping bands.
// Depths no profile covers use fallback.
func NewProfileSet(profiles []Profile, fallback Params) (*ProfileSet, error) {
	if err := fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback params: %w", err)
	}
	sorted := append([]Profile(nil), profiles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinDepth < sorted[j].MinDepth })
	for i, p := range sorted {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.MaxDepth == 0 || prev.MaxDepth >= p.MinDepth {
				return nil, fmt.Errorf("profiles %q and %q cover overlapping depths", prev.Name, p.Name)
			}
		}
	}
	return &ProfileSet{profiles: sorted, fallback: fallback}, nil
}

// ForDepth returns the parameters for depth and the name of the profile that
// supplied them, or "default" for the fallback.
func (s *ProfileSet) ForDepth(depth int) (Params, string) {
	for _, p := range s.profiles {
		if p.covers(depth) {
			return p.Params(), p.Name
		}
	}
	return s.fallback, "default"
}
