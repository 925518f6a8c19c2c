package cli

import (
	"strings"
	"testing"
)

// completions runs cobra's hidden __complete command and returns the
// suggested words without the trailing directive line.
func completions(t *testing.T, args ...string) []string {
	t.Helper()
	out, err := runCLI(t, "", append([]string{"__complete"}, args...)...)
	if err != nil {
		t.Fatal(err)
	}
	var words []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.HasPrefix(line, ":") {
			break
		}
		word, _, _ := strings.Cut(line, "\t")
		words = append(words, word)
	}
	return words
}

func TestCompleteViewFormats(t *testing.T) {
	got := completions(t, "graph", "--format", "svg,p")
	want := map[string]bool{"svg,pdf": true, "svg,png": true}
	if len(got) != len(want) {
		t.Fatalf("completions = %v", got)
	}
	for _, w := range got {
		if !want[w] {
			t.Errorf("unexpected completion %q", w)
		}
	}

	for _, w := range completions(t, "graph", "--format", "svg,") {
		if w == "svg,svg" {
			t.Error("a format already given is offered again")
		}
	}
}

func TestCompleteExportFormats(t *testing.T) {
	got := completions(t, "export", "--format", "")
	if len(got) == 0 {
		t.Fatal("no export formats offered")
	}
	found := false
	for _, w := range got {
		found = found || w == "json"
	}
	if !found {
		t.Errorf("json missing from %v", got)
	}
}

func TestCompleteJSONFilesPosition(t *testing.T) {
	// search takes the query first, so the file is the second argument
	if got := completions(t, "search", "ada", ""); len(got) != 1 || got[0] != "json" {
		t.Errorf("file position completions = %v, want [json]", got)
	}
	if got := completions(t, "search", ""); len(got) != 0 {
		t.Errorf("query position completions = %v, want none", got)
	}
}

func TestCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "", "completion", shell)
		if err != nil || !strings.Contains(out, "jsonscope") {
			t.Errorf("completion %s: err=%v, %d bytes", shell, err, len(out))
		}
	}
	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
