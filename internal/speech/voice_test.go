package speech

import "testing"

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   string
		wantOK bool
	}{
		{
			name:   "empty list",
			voices: nil,
			wantOK: false,
		},
		{
			name: "prefers google over other english",
			voices: []Voice{
				{Name: "Samantha", Lang: "en-US"},
				{Name: "Google US English", Lang: "en-US"},
			},
			want:   "Google US English",
			wantOK: true,
		},
		{
			name: "prefers neural when no google",
			voices: []Voice{
				{Name: "Samantha", Lang: "en-US"},
				{Name: "Aria Neural", Lang: "en-GB"},
			},
			want:   "Aria Neural",
			wantOK: true,
		},
		{
			name: "microsoft online matched case-insensitively",
			voices: []Voice{
				{Name: "Plain", Lang: "en-US"},
				{Name: "Microsoft Zira Online", Lang: "en-US"},
			},
			want:   "Microsoft Zira Online",
			wantOK: true,
		},
		{
			name: "preferred pattern on non-english voice is skipped",
			voices: []Voice{
				{Name: "Google Deutsch", Lang: "de-DE"},
				{Name: "Daniel", Lang: "en-GB"},
			},
			want:   "Daniel",
			wantOK: true,
		},
		{
			name: "falls back to first english",
			voices: []Voice{
				{Name: "Amelie", Lang: "fr-FR"},
				{Name: "Karen", Lang: "en-AU"},
				{Name: "Daniel", Lang: "en-GB"},
			},
			want:   "Karen",
			wantOK: true,
		},
		{
			name: "falls back to first voice when nothing is english",
			voices: []Voice{
				{Name: "Amelie", Lang: "fr-FR"},
				{Name: "Anna", Lang: "de-DE"},
			},
			want:   "Amelie",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectVoice(tt.voices)
			if ok != tt.wantOK {
				t.Fatalf("SelectVoice() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("SelectVoice() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}
