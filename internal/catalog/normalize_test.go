package catalog

import "testing"

func TestNormalize(t *testing.T) {
	t.Run("LowercasesAndTrims", func(t *testing.T) {
		if got := Normalize("  The Beatles "); got != "the beatles" {
			t.Errorf("expected 'the beatles', got %q", got)
		}
	})

	t.Run("CollapsesWhitespace", func(t *testing.T) {
		if got := Normalize("the   beatles"); got != "the beatles" {
			t.Errorf("expected 'the beatles', got %q", got)
		}
	})

	t.Run("StripsSeparators", func(t *testing.T) {
		cases := map[string]string{
			"AC/DC":              "ac dc",
			"Tyler, The Creator": "tyler the creator",
			"Jay-Z":              "jay z",
			"Florence + The Machine": "florence the machine",
		}
		for input, want := range cases {
			if got := Normalize(input); got != want {
				t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
			}
		}
	})

	t.Run("KeepsApostrophes", func(t *testing.T) {
		if got := Normalize("Guns N' Roses"); got != "guns n' roses" {
			t.Errorf("expected \"guns n' roses\", got %q", got)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		if got := Normalize("   "); got != "" {
			t.Errorf("expected empty key, got %q", got)
		}
	})

	t.Run("EquivalentInputsShareKey", func(t *testing.T) {
		a := Normalize("The Beatles")
		b := Normalize("the  beatles")
		c := Normalize(" THE BEATLES ")
		if a != b || b != c {
			t.Errorf("expected identical keys, got %q %q %q", a, b, c)
		}
	})
}
