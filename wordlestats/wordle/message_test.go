package wordle

import "testing"

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Classification
	}{
		{
			name:    "results with singular article",
			content: "Your group is on a 5 day streak! 🔥\n👑 3/6: <@111>",
			want:    Results,
		},
		{
			name:    "results with an article",
			content: "Your group is on an 11 day streak!",
			want:    Results,
		},
		{
			name:    "streak phrase is case sensitive",
			content: "your group is on a 5 day streak",
			want:    Unrecognized,
		},
		{
			name:    "no winner",
			content: "Nobody got yesterday's Wordle. The streak is over!",
			want:    NoWinner,
		},
		{
			name:    "no winner is case insensitive",
			content: "NOBODY GOT YESTERDAY'S WORDLE",
			want:    NoWinner,
		},
		{
			name:    "results phrase buried mid message",
			content: "Great job everyone! Your group is on a 100 day streak, keep it up",
			want:    Results,
		},
		{
			name:    "unrelated message",
			content: "good morning everyone",
			want:    Unrecognized,
		},
		{
			name:    "empty message",
			content: "",
			want:    Unrecognized,
		},
		{
			name:    "streak without day count",
			content: "Your group is on a day streak",
			want:    Unrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMessage(tt.content); got != tt.want {
				t.Errorf("ClassifyMessage(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestClassificationString(t *testing.T) {
	if got := Results.String(); got != "results" {
		t.Errorf("Results.String() = %q", got)
	}
	if got := NoWinner.String(); got != "no_winner" {
		t.Errorf("NoWinner.String() = %q", got)
	}
	if got := Unrecognized.String(); got != "unrecognized" {
		t.Errorf("Unrecognized.String() = %q", got)
	}
}
