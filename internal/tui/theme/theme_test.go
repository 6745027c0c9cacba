package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(nope) = %q, want fallback %q", got.Name, FlexokiDark.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() = %d entries, want %d", len(names), len(All))
	}
	for i, n := range names {
		if n != All[i].Name {
			t.Fatalf("Names()[%d] = %q, want %q", i, n, All[i].Name)
		}
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Fatalf("Active = %q, want terminal", Active.Name)
	}
}

func TestEveryThemeHasFormTheme(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	for _, th := range All {
		SetActive(th.Name)
		if FormTheme() == nil {
			t.Fatalf("FormTheme() for %s is nil", th.Name)
		}
	}
}
