package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/internal/domain/types"
	"github.com/olekukonko/tablewriter"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func renderContestants(w io.Writer, rows []model.Contestant) {
	headColor.Fprintln(w, "Contestants")
	table := newTable(w, "ID", "Name", "Skills")
	for _, c := range rows {
		table.Append([]string{strconv.Itoa(c.ID), c.Name, strings.Join(c.Skills, ", ")})
	}
	table.Render()
}

func renderJudges(w io.Writer, rows []model.Judge) {
	headColor.Fprintln(w, "Judges")
	table := newTable(w, "ID", "Name", "Skills Judged")
	for _, j := range rows {
		table.Append([]string{strconv.Itoa(j.ID), j.Name, strings.Join(j.SkillsJudged, ", ")})
	}
	table.Render()
}

func renderWeights(w io.Writer, weights map[string]int) {
	headColor.Fprintln(w, "Skill Weights")
	table := newTable(w, "Skill", "Weight (%)")
	for _, skill := range sortedKeys(weights) {
		table.Append([]string{skill, strconv.Itoa(weights[skill])})
	}
	table.Render()
}

func renderScores(w io.Writer, log []model.ScoreEntry) {
	headColor.Fprintln(w, "Score Log")
	table := newTable(w, "#", "Judge", "Contestant", "Skill", "Score")
	for i, e := range log {
		table.Append([]string{strconv.Itoa(i + 1), e.Judge, e.Contestant, e.Skill, strconv.Itoa(e.Score)})
	}
	table.Render()
}

func renderTotals(w io.Writer, totals map[string]float64) {
	headColor.Fprintln(w, "Final Scores")
	table := newTable(w, "Contestant", "Total")
	for _, name := range sortedKeys(totals) {
		table.Append([]string{name, formatTotal(totals[name])})
	}
	table.Render()
}

func renderLeaderboard(w io.Writer, entries []types.Entry) {
	headColor.Fprintln(w, "Leaderboard")
	table := newTable(w, "Rank", "Contestant", "Total")
	for _, e := range entries {
		table.Append([]string{strconv.Itoa(e.Rank), e.Contestant, formatTotal(e.Total)})
	}
	table.Render()
}

func formatTotal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func success(w io.Writer, format string, args ...interface{}) {
	okColor.Fprintf(w, "✔ "+format+"\n", args...)
}

func warn(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, "! "+format+"\n", args...)
}

// PrintError writes err as a red status line.
func PrintError(w io.Writer, err error) {
	errColor.Fprintln(w, fmt.Sprintf("✘ %v", err))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
