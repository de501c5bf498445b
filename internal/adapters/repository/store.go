// Package repository holds the per-session roster tables.
package repository

import (
	"context"

	"github.com/okian/contest/internal/domain/model"
)

// Roster provides read/write access to one session's tables.
//
// Mutations never fail. Edits and removals that match no row are no-ops
// and report 0 affected rows. Nothing is validated here; range checks
// belong to whatever collects the input.
type Roster interface {
	// AddContestant appends a contestant. Duplicate names are accepted.
	AddContestant(ctx context.Context, name string, skills []string) model.Contestant
	// UpdateContestant sets name and skills on every row named name.
	UpdateContestant(ctx context.Context, name, newName string, skills []string) int
	// RemoveContestant deletes every row named name. Scores are kept.
	RemoveContestant(ctx context.Context, name string) int
	Contestants(ctx context.Context) []model.Contestant

	AddJudge(ctx context.Context, name string, skills []string) model.Judge
	UpdateJudge(ctx context.Context, name, newName string, skills []string) int
	RemoveJudge(ctx context.Context, name string) int
	Judges(ctx context.Context) []model.Judge

	// SetSkillWeight assigns weight to skill, creating the skill if needed.
	SetSkillWeight(ctx context.Context, skill string, weight int)
	SkillWeights(ctx context.Context) model.SkillWeights

	// AppendScore adds an entry to the append-only score log.
	AppendScore(ctx context.Context, entry model.ScoreEntry)
	Scores(ctx context.Context) []model.ScoreEntry

	// Snapshot returns a deep copy of every table.
	Snapshot(ctx context.Context) model.Roster
}
