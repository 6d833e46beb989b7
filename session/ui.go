package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lexcodex/tunecouncil/collect"
	"github.com/lexcodex/tunecouncil/playlist"
	"github.com/lexcodex/tunecouncil/recommend"
)

var (
	colorPrimary = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("42")
	colorWarning = lipgloss.Color("220")
	colorError   = lipgloss.Color("196")
	colorDim     = lipgloss.Color("241")

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// Prompter supplies one line of user input per question. Extracted so tests
// can script an entire interactive session.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// linePrompter reads answers line by line from a reader.
type linePrompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewLinePrompter builds the interactive prompter used by the CLI.
func NewLinePrompter(in io.Reader, out io.Writer) Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	return &linePrompter{out: out, scanner: scanner}
}

func (p *linePrompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, "\n"+prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Banner renders the welcome screen shown before collection starts.
func Banner(songs int) string {
	body := headerStyle.Render("Multi-LLM Music Recommendation") + "\n\n" +
		fmt.Sprintf("Three AI models each propose %d songs matching your criteria.\n", songs) +
		"Each proposal is scored, the scores are summed across models,\n" +
		"and the top picks become a YouTube playlist."
	return bannerStyle.Render(body)
}

// stepMessage styles the per-input feedback of the collection loop.
func stepMessage(step collect.Step) string {
	switch step.Outcome {
	case collect.Accepted:
		return successStyle.Render("✓ " + step.Message)
	case collect.ForceAccepted:
		return warnStyle.Render("! " + step.Message)
	default:
		return errorStyle.Render("✗ " + step.Message)
	}
}

// ConsensusTable renders the top consensus entries for the terminal.
func ConsensusTable(entries []recommend.ConsensusEntry, topN int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("POINTS", "SONG", "ARTIST", "ALBUM", "YEAR")
	for _, entry := range recommend.Top(entries, topN) {
		t.Row(
			strconv.Itoa(entry.TotalPoints),
			entry.SongTitle,
			entry.Artist,
			entry.Album,
			strconv.Itoa(entry.Year),
		)
	}
	return t.Render()
}

// failureReport lists the tracks that could not be published.
func failureReport(failed []playlist.FailedTrack) string {
	var b strings.Builder
	for _, track := range failed {
		fmt.Fprintf(&b, "  - %s - %s\n", track.SongTitle, track.Artist)
	}
	return b.String()
}
