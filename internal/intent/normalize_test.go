package intent

import "testing"

func TestNormalize_WakeWordPhrase(t *testing.T) {
	n := NewNormalizer("jarvis")

	cases := []struct {
		in   string
		want string
	}{
		{"hey jarvis call daddy", "call daddy"},
		{"Hey Jarvis call daddy", "call daddy"},
		{"HEY JARVIS call daddy", "call daddy"},
		{"jarvis call daddy", "call daddy"},
		{"call daddy", "call daddy"},
		{"  hey jarvis   call daddy  ", "call daddy"},
	}
	for _, tc := range cases {
		got := n.Normalize(tc.in)
		if got.Lower != tc.want {
			t.Errorf("Normalize(%q).Lower = %q, want %q", tc.in, got.Lower, tc.want)
		}
	}
}

func TestNormalize_PreservesCase(t *testing.T) {
	n := NewNormalizer("jarvis")

	got := n.Normalize("Hey Jarvis navigate to Sadar Bazaar Chatgali")
	if got.Original != "navigate to Sadar Bazaar Chatgali" {
		t.Errorf("Original = %q", got.Original)
	}
	if got.Lower != "navigate to sadar bazaar chatgali" {
		t.Errorf("Lower = %q", got.Lower)
	}
}

func TestNormalize_WordBoundary(t *testing.T) {
	n := NewNormalizer("jarvis")

	// "jarvises" must not lose its prefix.
	got := n.Normalize("call jarvises office")
	if got.Lower != "call jarvises office" {
		t.Errorf("Lower = %q", got.Lower)
	}
}

func TestNormalize_CustomWakeWord(t *testing.T) {
	n := NewNormalizer("Friday")

	got := n.Normalize("hey friday call mom")
	if got.Lower != "call mom" {
		t.Errorf("Lower = %q", got.Lower)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := NewNormalizer("")

	got := n.Normalize("")
	if got.Lower != "" || got.Original != "" {
		t.Errorf("expected empty result, got %+v", got)
	}
}
