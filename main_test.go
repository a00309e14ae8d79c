package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/raster"
)

func TestRunExampleScript(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "banner.png")
	debugPath := filepath.Join(dir, "debug", "layout.json")

	shaper, err := newShaper("freetype", "examples")
	if err != nil {
		t.Fatalf("newShaper error: %v", err)
	}
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	if err := run("examples/banner.caption", out, debugPath, "examples", data, shaper); err != nil {
		t.Fatalf("run error: %v", err)
	}

	img, format, err := raster.Load(out)
	if err != nil || format != raster.PNG {
		t.Fatalf("expected png output, got %s %v", format, err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 400 {
		t.Fatalf("unexpected output size %v", img.Bounds())
	}

	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	var res layout.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decode debug json: %v", err)
	}
	if len(res.Texts) != 2 || res.Meta.Title != "Weekend sale" {
		t.Fatalf("unexpected debug result %+v", res)
	}
	if res.Texts[0].Content != "Weekend sale" {
		t.Fatalf("expected default interpolation, got %q", res.Texts[0].Content)
	}
}

func TestNewShaperUnknownEngine(t *testing.T) {
	if _, err := newShaper("gd", ""); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}
