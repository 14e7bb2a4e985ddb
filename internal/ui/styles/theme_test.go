package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestByName(t *testing.T) {
	if got := ByName(Light).Name; got != Light {
		t.Errorf("ByName(light) = %q", got)
	}
	if got := ByName("solarized").Name; got != Dark {
		t.Errorf("unknown theme = %q, want dark", got)
	}
}

func TestSetAndNext(t *testing.T) {
	defer Set(Dark)

	if Set(Light) != T() {
		t.Error("Set did not make the theme active")
	}
	if Next(Light) != Dark || Next(Dark) != Light {
		t.Error("Next does not toggle between dark and light")
	}
}

func TestBlend(t *testing.T) {
	colors := Blend(5, lipgloss.Color("#000000"), lipgloss.Color("#ffffff"))
	if len(colors) != 5 {
		t.Fatalf("len = %d, want 5", len(colors))
	}
	if colors[0] != "#000000" || colors[4] != "#ffffff" {
		t.Errorf("endpoints = %s..%s", colors[0], colors[4])
	}

	if got := Blend(1, lipgloss.Color("#123456"), lipgloss.Color("#ffffff")); len(got) != 1 {
		t.Errorf("single color blend len = %d", len(got))
	}
}
