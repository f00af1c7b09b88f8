package jobs

import "testing"

func TestMatchesAnyGlob(t *testing.T) {
	globs := []string{"*/node_modules/*", "*.pyc", "*~"}

	cases := []struct {
		path string
		want bool
	}{
		{"repo/node_modules/index.js", true}, // one path segment before node_modules, matching "*/node_modules/*"
		{"/repo/build/output.pyc", true},      // extension pattern matched against the base name
		{"/repo/notes.txt~", true},
		{"/repo/main.go", false},
	}
	for _, c := range cases {
		if got := matchesAnyGlob(c.path, globs); got != c.want {
			t.Errorf("matchesAnyGlob(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}
