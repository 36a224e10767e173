package utils

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: " \n\t ", want: 0},
		{name: "markdown heading", text: "# History of Tea\n\nTea is old.", want: 7},
		{name: "mixed whitespace", text: "one\ttwo\nthree  four", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("expected %d words, got %d", tt.want, got)
			}
		})
	}
}

func TestHasMinContent(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: false},
		{text: "   \n  ", want: false},
		{text: "ok", want: false},
		{text: "a b c d e f g h i", want: false}, // 9 non-space
		{text: "a b c d e f g h i j", want: true},
		{text: "  0123456789  ", want: true},
		{text: "茶は中国で生まれた飲み物", want: true},
	}

	for _, tt := range tests {
		if got := HasMinContent(tt.text, 10); got != tt.want {
			t.Errorf("HasMinContent(%q): expected %v, got %v", tt.text, tt.want, got)
		}
		if got := CountNonSpace(tt.text) >= 10; got != tt.want {
			t.Errorf("CountNonSpace(%q) disagrees with HasMinContent", tt.text)
		}
	}
}
