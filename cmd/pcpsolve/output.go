package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/smallnest/pcpsolver/pcp"
)

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorWarning = lipgloss.Color("#F4D03F")
	colorMuted   = lipgloss.Color("#6C7A89")
)

var styles = struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Label:   lipgloss.NewStyle().Bold(true).Width(10),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

func renderResult(w io.Writer, tiles []pcp.Tile, maxDepth int, res *pcp.Result) {
	switch {
	case res.Cancelled:
		fmt.Fprintln(w, styles.Warning.Render("Stopped by user."))
	case !res.Found:
		fmt.Fprintf(w, "No solution found up to depth %d.\n", maxDepth)
	default:
		fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("Solution found at depth %d.", len(res.Path))))
		fmt.Fprintln(w, renderSolution(tiles, res))
	}
}

func renderSolution(tiles []pcp.Tile, res *pcp.Result) string {
	seq := make([]string, len(res.Path))
	for i, idx := range res.Path {
		seq[i] = strconv.Itoa(idx)
	}
	match := res.Match(tiles)

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, styles.Label.Render("Sequence"), strings.Join(seq, " ")),
		lipgloss.JoinHorizontal(lipgloss.Top, styles.Label.Render("String"), match),
		lipgloss.JoinHorizontal(lipgloss.Top, styles.Label.Render("Length"), strconv.Itoa(len(match))),
		styles.Muted.Render(fmt.Sprintf("%d nodes in %s", res.Nodes, res.Elapsed.Round(time.Microsecond))),
	}
	return styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
