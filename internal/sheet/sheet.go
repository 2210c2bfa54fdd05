package sheet

import (
	"embed"
	"html/template"
	"io"

	"github.com/soundsteps/phonics-backend/internal/content"
	"github.com/soundsteps/phonics-backend/internal/game"
)

//go:embed templates/sheet.html
var templateFS embed.FS

var sheetTemplate = template.Must(template.ParseFS(templateFS, "templates/sheet.html"))

// Row is one printed question line.
type Row struct {
	Number  int
	Choices []string
}

// Data feeds the printable sheet template. The sequence is split into two
// balanced columns to fit a single A4 page.
type Data struct {
	Set         string
	LeftColumn  []Row
	RightColumn []Row
	Total       int
	Minutes     int
}

// Build prepares template data from a resolved question sequence. Targets
// never reach the sheet; the learner hears the word, the sheet only shows
// the choices.
func Build(letter string, seq []content.ResolvedQuestion) Data {
	rows := make([]Row, len(seq))
	for i, q := range seq {
		rows[i] = Row{Number: i + 1, Choices: q.Choices}
	}

	half := (len(rows) + 1) / 2
	return Data{
		Set:         letter,
		LeftColumn:  rows[:half],
		RightColumn: rows[half:],
		Total:       len(rows),
		Minutes:     int(game.TotalDuration.Minutes()),
	}
}

// Render writes the printable answer sheet HTML for a resolved sequence.
func Render(w io.Writer, letter string, seq []content.ResolvedQuestion) error {
	return sheetTemplate.Execute(w, Build(letter, seq))
}
