package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/okian/contest/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the roster every session starts from when no seed
// file is configured.
func DefaultSeed() model.Roster {
	return model.Roster{
		Contestants: []model.Contestant{
			{ID: 1, Name: "Alice", Skills: []string{"Dance", "Instrumental"}},
			{ID: 2, Name: "Bob", Skills: []string{"Performance", "Music"}},
			{ID: 3, Name: "Charlie", Skills: []string{"Dance", "Music"}},
		},
		Judges: []model.Judge{
			{ID: 1, Name: "Judge1", SkillsJudged: []string{"Dance", "Music"}},
			{ID: 2, Name: "Judge2", SkillsJudged: []string{"Instrumental", "Performance"}},
		},
		Weights: model.SkillWeights{
			"Dance":        30,
			"Instrumental": 20,
			"Performance":  25,
			"Music":        25,
		},
	}
}

// LoadSeed reads a YAML roster. Rows without an id are numbered by
// position, starting at 1. Unknown keys are rejected.
func LoadSeed(_ context.Context, path string) (model.Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Roster{}, fmt.Errorf("%w: %w", ErrLoadSeed, err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes a YAML roster document.
func ParseSeed(raw []byte) (model.Roster, error) {
	var r model.Roster
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return model.Roster{}, fmt.Errorf("%w: %w", ErrLoadSeed, err)
	}

	for i := range r.Contestants {
		if r.Contestants[i].ID == 0 {
			r.Contestants[i].ID = i + 1
		}
	}
	for i := range r.Judges {
		if r.Judges[i].ID == 0 {
			r.Judges[i].ID = i + 1
		}
	}
	if r.Weights == nil {
		r.Weights = model.SkillWeights{}
	}
	return r, nil
}

// ResolveSeed returns the roster from c.SeedFile, or DefaultSeed when unset.
func (c *Config) ResolveSeed(ctx context.Context) (model.Roster, error) {
	if c.SeedFile == "" {
		return DefaultSeed(), nil
	}
	return LoadSeed(ctx, c.SeedFile)
}
