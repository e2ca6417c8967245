package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Foxnut" || names[1] != "Midnight" || names[2] != "Paper" {
		t.Fatalf("ThemeNames() = %v, want [Foxnut Midnight Paper]", names)
	}

	names[0] = "mutated"
	if ThemeNames()[0] != "Foxnut" {
		t.Fatalf("ThemeNames() exposes its backing slice")
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Foxnut"); got != "Midnight" {
		t.Fatalf("NextTheme(Foxnut) = %q, want Midnight", got)
	}
	if got := NextTheme("Paper"); got != "Foxnut" {
		t.Fatalf("NextTheme(Paper) = %q, want Foxnut", got)
	}
	if got := NextTheme("Unknown"); got != "Foxnut" {
		t.Fatalf("NextTheme(Unknown) = %q, want Foxnut", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Foxnut" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Foxnut (fallback)", got)
	}
}

func TestStockStyle(t *testing.T) {
	styles := GetTheme("Foxnut").Styles()

	if got := styles.StockStyle(0).GetForeground(); got != styles.DangerText.GetForeground() {
		t.Fatalf("StockStyle(0) = %v, want danger", got)
	}
	if got := styles.StockStyle(8).GetForeground(); got != styles.WarningText.GetForeground() {
		t.Fatalf("StockStyle(8) = %v, want warning", got)
	}
	if got := styles.StockStyle(45).GetForeground(); got != styles.MutedText.GetForeground() {
		t.Fatalf("StockStyle(45) = %v, want muted", got)
	}
}
