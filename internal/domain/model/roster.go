// Package model contains domain models passed between layers.
package model

import "strings"

// Contestant is a competitor on the roster.
type Contestant struct {
	ID     int      `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`     // unique by convention, not enforced
	Skills []string `json:"skills" yaml:"skills"` // e.g. "Dance", "Music"
}

// Judge scores contestants on the skills they judge.
type Judge struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	SkillsJudged []string `json:"skills_judged" yaml:"skills_judged"`
}

// SkillWeights maps a skill name to its weight in percent.
type SkillWeights map[string]int

// Weight returns the weight for skill, or 0 when the skill is unknown.
func (w SkillWeights) Weight(skill string) int {
	return w[skill]
}

// Clone returns an independent copy of w. A nil map clones to an empty one.
func (w SkillWeights) Clone() SkillWeights {
	out := make(SkillWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// ScoreEntry is one judge's score for one contestant on one skill.
// Judge and contestant are referenced by name.
type ScoreEntry struct {
	Judge      string `json:"judge"`
	Contestant string `json:"contestant"`
	Skill      string `json:"skill"`
	Score      int    `json:"score"`
}

// Roster bundles every table a session owns.
type Roster struct {
	Contestants []Contestant `yaml:"contestants"`
	Judges      []Judge      `yaml:"judges"`
	Weights     SkillWeights `yaml:"skill_weights"`
	Scores      []ScoreEntry `yaml:"-"`
}

// Clone deep-copies r so the copy shares no slices or maps with it.
func (r Roster) Clone() Roster {
	out := Roster{
		Contestants: make([]Contestant, len(r.Contestants)),
		Judges:      make([]Judge, len(r.Judges)),
		Weights:     r.Weights.Clone(),
		Scores:      make([]ScoreEntry, len(r.Scores)),
	}
	for i, c := range r.Contestants {
		c.Skills = cloneStrings(c.Skills)
		out.Contestants[i] = c
	}
	for i, j := range r.Judges {
		j.SkillsJudged = cloneStrings(j.SkillsJudged)
		out.Judges[i] = j
	}
	copy(out.Scores, r.Scores)
	return out
}

// ParseSkills splits comma-separated skill text such as "Dance, Music".
// Items are trimmed and empty items dropped.
func ParseSkills(text string) []string {
	parts := strings.Split(text, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// JoinSkills renders skills back to comma-separated text.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
