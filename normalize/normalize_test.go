package normalize

import "testing"

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "janedoe", want: "janedoe"},
		{name: "dots stripped", input: "jane.doe", want: "janedoe"},
		{name: "underscores and hyphens stripped", input: "jane_doe-x", want: "janedoex"},
		{name: "trailing digits stripped", input: "janedoe2024", want: "janedoe"},
		{name: "separator then digits", input: "jane.doe_99", want: "janedoe"},
		{name: "internal digits kept", input: "j4ne.doe", want: "j4nedoe"},
		{name: "upper-cased", input: "JaneDoe", want: "janedoe"},
		{name: "whitespace dropped", input: "  jane doe  ", want: "janedoe"},
		{name: "empty", input: "", want: ""},
		{name: "all digits", input: "12345", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identifier(tt.input)
			if got != tt.want {
				t.Errorf("Identifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Normalization must be idempotent.
			if again := Identifier(got); again != got {
				t.Errorf("Identifier not idempotent: Identifier(%q) = %q", got, again)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Jane Doe", want: "jane doe"},
		{name: "punctuation stripped", input: "Jane O'Doe, Jr.", want: "jane odoe jr"},
		{name: "whitespace collapsed", input: "  Jane   Doe ", want: "jane doe"},
		{name: "emoji stripped", input: "Jane 🍳 Doe", want: "jane doe"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Name(got); again != got {
				t.Errorf("Name not idempotent: Name(%q) = %q", got, again)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	const long = "Chef in New York City cooking every single day"

	t.Run("short text excluded", func(t *testing.T) {
		if got := Fingerprint("NYC chef"); got != "" {
			t.Errorf("Fingerprint(short) = %q, want empty", got)
		}
	})

	t.Run("fixed width", func(t *testing.T) {
		if got := Fingerprint(long); len(got) != digestLen {
			t.Errorf("Fingerprint length = %d, want %d", len(got), digestLen)
		}
	})

	t.Run("decoration invariant", func(t *testing.T) {
		decorated := long + " https://t.co/xyz @someone #foodie!!!"
		if Fingerprint(long) != Fingerprint(decorated) {
			t.Errorf("decorated copy produced a different fingerprint")
		}
	})

	t.Run("different text differs", func(t *testing.T) {
		other := "Completely unrelated biography text here"
		if Fingerprint(long) == Fingerprint(other) {
			t.Errorf("distinct texts produced the same fingerprint")
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		if Fingerprint(long) != Fingerprint(long) {
			t.Errorf("fingerprint not deterministic")
		}
	})
}

func TestClean(t *testing.T) {
	got := Clean("Check THIS out: https://example.com/x @jane #cool!!")
	want := "check this out"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}
