package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/soundsteps/phonics-backend/internal/content"
)

func TestBuildSplitsColumns(t *testing.T) {
	seq := make([]content.ResolvedQuestion, 60)
	for i := range seq {
		seq[i] = content.ResolvedQuestion{
			ID:        i + 1,
			Choices:   []string{"a", "b", "c"},
			TargetIdx: 0,
			Sound:     "a",
		}
	}

	data := Build("A", seq)
	if len(data.LeftColumn) != 30 || len(data.RightColumn) != 30 {
		t.Fatalf("columns = %d/%d, want 30/30", len(data.LeftColumn), len(data.RightColumn))
	}
	if data.LeftColumn[0].Number != 1 || data.RightColumn[0].Number != 31 {
		t.Errorf("column starts = %d/%d, want 1/31", data.LeftColumn[0].Number, data.RightColumn[0].Number)
	}
	if data.Total != 60 {
		t.Errorf("total = %d, want 60", data.Total)
	}
	if data.Minutes != 4 {
		t.Errorf("minutes = %d, want 4", data.Minutes)
	}
}

func TestBuildOddLengthFavorsLeftColumn(t *testing.T) {
	seq := make([]content.ResolvedQuestion, 5)
	for i := range seq {
		seq[i] = content.ResolvedQuestion{ID: i + 1, Choices: []string{"a", "b", "c"}}
	}

	data := Build("A", seq)
	if len(data.LeftColumn) != 3 || len(data.RightColumn) != 2 {
		t.Errorf("columns = %d/%d, want 3/2", len(data.LeftColumn), len(data.RightColumn))
	}
}

func TestRenderSheet(t *testing.T) {
	library, err := content.Load("", zerolog.Nop())
	if err != nil {
		t.Fatalf("content.Load() error = %v", err)
	}
	seq, err := library.ResolveSet("A")
	if err != nil {
		t.Fatalf("ResolveSet() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, "A", seq); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "SET A") {
		t.Error("rendered sheet is missing the set header")
	}
	if !strings.Contains(html, "PHONICS COMPETITION") {
		t.Error("rendered sheet is missing the title")
	}
	for _, q := range seq[:3] {
		for _, choice := range q.Choices {
			if !strings.Contains(html, ">&#9744; "+choice+"<") && !strings.Contains(html, choice) {
				t.Errorf("rendered sheet is missing choice %q", choice)
			}
		}
	}
	if got := strings.Count(html, `class="question"`); got != len(seq) {
		t.Errorf("rendered questions = %d, want %d", got, len(seq))
	}
}
