package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_JSON(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--format-json"})
	if err != nil {
		t.Fatalf("version --format-json failed: %v\n%s", err, out)
	}
	var v map[string]any
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	if _, ok := v["version"].(string); !ok {
		t.Errorf("expected version field in JSON")
	}
	if _, ok := v["goVersion"].(string); !ok {
		t.Errorf("expected goVersion field in JSON")
	}
	if _, ok := v["platform"].(string); !ok {
		t.Errorf("expected platform field in JSON")
	}
}

func TestVersion_Text(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--extended"})
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "catgen dev\n") {
		t.Errorf("unexpected version output: %q", out)
	}
	if !strings.Contains(out, "Platform: ") {
		t.Errorf("expected platform line in extended output: %q", out)
	}
}

func TestVersion_Flag(t *testing.T) {
	out, err := execRoot(t, []string{"--version"})
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if strings.TrimSpace(out) != "catgen dev" {
		t.Errorf("unexpected --version output: %q", out)
	}
}
