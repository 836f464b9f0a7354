package language

import "testing"

func TestHint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN-US", "en"},
		{"deu", "de"},
		{"english", "en"},
		{"Ukrainian", "uk"},
		{"", ""},
		{"zz-unknown-q", ""},
	}
	for _, tt := range tests {
		if got := Hint(tt.in); got != tt.want {
			t.Errorf("Hint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("EN-US"); got != "English" {
		t.Errorf("Display(EN-US) = %q, want English", got)
	}
	if got := Display("not-a-language-at-all"); got != "not-a-language-at-all" {
		t.Errorf("Display(unknown) = %q, want input unchanged", got)
	}
}
