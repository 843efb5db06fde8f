package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testLayouts = `
layouts:
  - name: Front Line
    layout: LLLLVVVV
  - name: Checkerboard
    layout: lvlvlvlv
`

func TestParseLayouts(t *testing.T) {
	lf, err := ParseLayouts([]byte(testLayouts))
	if err != nil {
		t.Fatal(err)
	}
	if len(lf.Layouts) != 2 || lf.Layouts[1].Name != "Checkerboard" {
		t.Fatalf("unexpected layouts: %+v", lf.Layouts)
	}
}

func TestParseLayoutsRejectsInvalidLayout(t *testing.T) {
	_, err := ParseLayouts([]byte("layouts:\n  - name: Greedy\n    layout: LLLLLVVV\n"))
	if err == nil || !strings.Contains(err.Error(), "Greedy") {
		t.Errorf("expected an error naming the layout, got %v", err)
	}
	if _, err := ParseLayouts([]byte("layouts: [")); err == nil {
		t.Error("expected a YAML error")
	}
}

func TestLayoutByNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	if err := os.WriteFile(path, []byte(testLayouts), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := LayoutByNumber(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := newTestGame(t)
	g.InitGame()
	mustExecute(t, g, FormatDeploy(l.Layout), 1)

	if _, err := LayoutByNumber(path, 3); err == nil {
		t.Error("expected an error for a missing layout")
	}
	if _, err := LayoutByNumber(filepath.Join(t.TempDir(), "missing.yaml"), 1); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestBundledLayoutsAreValid(t *testing.T) {
	lf, err := ParseLayoutFile(filepath.Join("..", "..", "layouts.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(lf.Layouts) == 0 {
		t.Error("expected bundled layouts")
	}
}
