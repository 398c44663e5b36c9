package latex

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \n\t  ",
			want:  "",
		},
		{
			name:  "clean expression untouched",
			input: "x^2 + 2x + 1 = 0",
			want:  "x^2 + 2x + 1 = 0",
		},
		{
			name:  "fenced with language tag",
			input: "```latex\n x=1 ```",
			want:  "x=1",
		},
		{
			name:  "fenced without language tag",
			input: "```x^2```",
			want:  "x^2",
		},
		{
			name:  "triple single-quote fence",
			input: "'''x+y'''",
			want:  "x+y",
		},
		{
			name:  "single quotes",
			input: "'x=1'",
			want:  "x=1",
		},
		{
			name:  "double quotes",
			input: `"x=1"`,
			want:  "x=1",
		},
		{
			name:  "quote inside fence",
			input: "```'x=1'```",
			want:  "x=1",
		},
		{
			name:  "latex word stripped anywhere",
			input: "latex x = latex 1",
			want:  "x =  1",
		},
		{
			name:  "latex word is case-insensitive",
			input: "LaTeX x=1",
			want:  "x=1",
		},
		{
			name:  "latex as substring survives",
			input: "latexification",
			want:  "latexification",
		},
		{
			name:  "edge backslash runs stripped",
			input: `\\x=1\\`,
			want:  "x=1",
		},
		{
			name:  "fence then stray backslash",
			input: "```\\x=1```",
			want:  "x=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"x=1",
		"```latex\n x=1 ```",
		"'x=1'",
		`"''x''"`,
		"latex latex latex",
		`\\frac{1}{2}\\`,
		"  ```'\\x^2\\'```  ",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
