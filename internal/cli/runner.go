package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/okian/contest/internal/domain/model"
)

// ErrUnknownCommand is returned for a command rosterctl does not know.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUsage is returned when a command is missing required flags.
var ErrUsage = errors.New("invalid usage")

// Run executes one rosterctl command. args[0] is the command name.
func Run(ctx context.Context, cfg *Config, args []string) error {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	if len(args) == 0 {
		ShowHelp(out)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	r := &runner{client: NewClient(cfg), out: out}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help":
		ShowHelp(out)
		return nil
	case "session":
		return r.session(ctx, rest)
	case "close-session":
		return r.closeSession(ctx)
	case "contestants":
		return r.contestants(ctx)
	case "judges":
		return r.judges(ctx)
	case "add-contestant", "add-judge":
		return r.addMember(ctx, cmd, rest)
	case "update-contestant", "update-judge":
		return r.updateMember(ctx, cmd, rest)
	case "remove-contestant", "remove-judge":
		return r.removeMember(ctx, cmd, rest)
	case "weights":
		return r.weights(ctx)
	case "set-weight":
		return r.setWeight(ctx, rest)
	case "score":
		return r.score(ctx, rest)
	case "scores":
		return r.scores(ctx)
	case "totals":
		return r.totals(ctx)
	case "leaderboard":
		return r.leaderboard(ctx, rest)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

type runner struct {
	client *Client
	out    io.Writer
}

func (r *runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	return fs
}

func (r *runner) session(ctx context.Context, args []string) error {
	fs := r.flags("session")
	quiet := fs.Bool("quiet", false, "Print only the session id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	id, err := r.client.OpenSession(ctx)
	if err != nil {
		return err
	}
	if *quiet {
		fmt.Fprintln(r.out, id)
		return nil
	}
	success(r.out, "session opened: %s", id)
	return nil
}

func (r *runner) closeSession(ctx context.Context) error {
	if err := r.client.CloseSession(ctx); err != nil {
		return err
	}
	success(r.out, "session closed")
	return nil
}

func (r *runner) contestants(ctx context.Context) error {
	rows, err := r.client.Contestants(ctx)
	if err != nil {
		return err
	}
	renderContestants(r.out, rows)
	return nil
}

func (r *runner) judges(ctx context.Context) error {
	rows, err := r.client.Judges(ctx)
	if err != nil {
		return err
	}
	renderJudges(r.out, rows)
	return nil
}

// tableFor maps a command like "add-judge" to its API table and label.
func tableFor(cmd string) (table, label string) {
	switch cmd {
	case "add-judge", "update-judge", "remove-judge":
		return "judges", "judge"
	default:
		return "contestants", "contestant"
	}
}

func (r *runner) addMember(ctx context.Context, cmd string, args []string) error {
	fs := r.flags(cmd)
	name := fs.String("name", "", "Name (max 50 chars)")
	skills := fs.String("skills", "", "Comma separated skills")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *name == "" {
		return fmt.Errorf("%w: -name is required", ErrUsage)
	}

	table, label := tableFor(cmd)
	var id int
	var err error
	if table == "judges" {
		var j model.Judge
		j, err = r.client.AddJudge(ctx, *name, *skills)
		id = j.ID
	} else {
		var c model.Contestant
		c, err = r.client.AddContestant(ctx, *name, *skills)
		id = c.ID
	}
	if err != nil {
		return err
	}
	success(r.out, "%s %q added with id %d", label, *name, id)
	return nil
}

func (r *runner) updateMember(ctx context.Context, cmd string, args []string) error {
	fs := r.flags(cmd)
	name := fs.String("name", "", "Current name")
	newName := fs.String("new-name", "", "New name (defaults to the current name)")
	skills := fs.String("skills", "", "Comma separated skills")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *name == "" {
		return fmt.Errorf("%w: -name is required", ErrUsage)
	}
	if *newName == "" {
		*newName = *name
	}

	table, label := tableFor(cmd)
	n, err := r.client.UpdateMember(ctx, table, *name, *newName, *skills)
	if err != nil {
		return err
	}
	if n == 0 {
		warn(r.out, "no %s named %q", label, *name)
		return nil
	}
	success(r.out, "%d %s row(s) updated", n, label)
	return nil
}

func (r *runner) removeMember(ctx context.Context, cmd string, args []string) error {
	fs := r.flags(cmd)
	name := fs.String("name", "", "Name to remove")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *name == "" {
		return fmt.Errorf("%w: -name is required", ErrUsage)
	}

	table, label := tableFor(cmd)
	n, err := r.client.RemoveMember(ctx, table, *name)
	if err != nil {
		return err
	}
	if n == 0 {
		warn(r.out, "no %s named %q", label, *name)
		return nil
	}
	success(r.out, "%d %s row(s) removed", n, label)
	return nil
}

func (r *runner) weights(ctx context.Context) error {
	w, err := r.client.Weights(ctx)
	if err != nil {
		return err
	}
	renderWeights(r.out, w)
	return nil
}

func (r *runner) setWeight(ctx context.Context, args []string) error {
	fs := r.flags("set-weight")
	skill := fs.String("skill", "", "Skill name")
	weight := fs.Int("weight", 0, "Weight in percent (1-100)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *skill == "" {
		return fmt.Errorf("%w: -skill is required", ErrUsage)
	}
	w, err := r.client.SetWeight(ctx, *skill, *weight)
	if err != nil {
		return err
	}
	success(r.out, "weight for %s set to %d", *skill, *weight)
	renderWeights(r.out, w)
	return nil
}

func (r *runner) score(ctx context.Context, args []string) error {
	fs := r.flags("score")
	judge := fs.String("judge", "", "Judge name")
	contestant := fs.String("contestant", "", "Contestant name")
	skill := fs.String("skill", "", "Skill")
	score := fs.Int("score", 0, "Score (1-100)")
	id := fs.String("id", "", "Submission id; a repeat is not recorded twice")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *judge == "" || *contestant == "" || *skill == "" {
		return fmt.Errorf("%w: -judge, -contestant and -skill are required", ErrUsage)
	}

	entry := model.ScoreEntry{Judge: *judge, Contestant: *contestant, Skill: *skill, Score: *score}
	ack, err := r.client.SubmitScore(ctx, entry, *id)
	if err != nil {
		return err
	}
	if ack.Duplicate {
		warn(r.out, "submission %q already recorded", *id)
		return nil
	}
	success(r.out, "score submitted successfully")
	return nil
}

func (r *runner) scores(ctx context.Context) error {
	log, err := r.client.Scores(ctx)
	if err != nil {
		return err
	}
	renderScores(r.out, log)
	return nil
}

func (r *runner) totals(ctx context.Context) error {
	totals, err := r.client.Totals(ctx)
	if err != nil {
		return err
	}
	renderTotals(r.out, totals)
	return nil
}

func (r *runner) leaderboard(ctx context.Context, args []string) error {
	fs := r.flags("leaderboard")
	limit := fs.Int("limit", 0, "Number of rows (server default when 0)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	entries, err := r.client.Leaderboard(ctx, *limit)
	if err != nil {
		return err
	}
	renderLeaderboard(r.out, entries)
	return nil
}
