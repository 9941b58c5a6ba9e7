package core

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	wf := filepath.Join(dir, "workflows")
	if err := os.MkdirAll(filepath.Join(wf, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.yml", "a.yaml", "README.md", "C.YML", "nested/deep.yml"} {
		writeFile(t, wf, name, "name: x\n")
	}
	single := writeFile(t, dir, "single.yml", "name: x\n")
	missing := filepath.Join(dir, "missing.yml")

	got := Discover([]string{single, wf, missing, single, filepath.Join(wf, "a.yaml")})
	want := []string{
		single,
		filepath.Join(wf, "C.YML"),
		filepath.Join(wf, "a.yaml"),
		filepath.Join(wf, "b.yml"),
		missing,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discover =\n%v\nwant\n%v", got, want)
	}
}

func TestIsWorkflowFile(t *testing.T) {
	for name, want := range map[string]bool{
		"ci.yml":   true,
		"ci.yaml":  true,
		"CI.YAML":  true,
		"ci.json":  false,
		"yml":      false,
		"ci.yml.b": false,
	} {
		if got := IsWorkflowFile(name); got != want {
			t.Errorf("IsWorkflowFile(%q) = %v", name, got)
		}
	}
}
