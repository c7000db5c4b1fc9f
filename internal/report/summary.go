package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/spacesedan/reelpulse/internal/models"
)

const maxTitleWidth = 40

var summaryHeader = []string{"MOVIE", "REVIEWS", "POS", "NEG", "NEU", "MEAN", "DIRECTOR", "SCORE"}

// PrintSummary writes one aligned row per movie. Widths are measured in
// terminal cells so wide titles line up.
func PrintSummary(w io.Writer, rep *Report) error {
	rows := [][]string{summaryHeader}
	for _, m := range rep.Movies {
		director, score := "-", "-"
		if m.Info != nil && m.Info.Error == "" {
			if m.Info.Director != "" {
				director = m.Info.Director
			}
			score = fmt.Sprintf("%.1f", m.Info.UserScore)
		}

		rows = append(rows, []string{
			runewidth.Truncate(m.Movie, maxTitleWidth, "..."),
			fmt.Sprint(m.Reviews),
			fmt.Sprint(m.Distribution[models.LabelPositive]),
			fmt.Sprint(m.Distribution[models.LabelNegative]),
			fmt.Sprint(m.Distribution[models.LabelNeutral]),
			fmt.Sprintf("%+.3f", m.MeanScore),
			director,
			score,
		})
	}

	widths := make([]int, len(summaryHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(row)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
