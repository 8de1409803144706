package narrative

import (
	"testing"

	"github.com/nathoo/crawlcore/types"
)

func TestDefault_EnglishNames(t *testing.T) {
	c := Default()
	tests := []struct {
		kind types.MonsterKind
		want string
	}{
		{types.MonsterSlime, "Slime"},
		{types.MonsterGoblin, "Goblin"},
		{types.MonsterWraith, "Wraith"},
		{types.MonsterOrc, "Orc"},
	}
	for _, tt := range tests {
		if got := c.MonsterName(tt.kind); got != tt.want {
			t.Errorf("MonsterName(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNew_RegionFallsBackToBase(t *testing.T) {
	c, err := New("en-GB", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := c.MonsterName(types.MonsterOrc); got != "Orc" {
		t.Errorf("en-GB orc = %q, want Orc", got)
	}
}

func TestNew_Overrides(t *testing.T) {
	c, err := New("fr", map[string]map[string]string{
		"fr": {"slime": "Gelée", "orc": "Orque"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := c.MonsterName(types.MonsterSlime); got != "Gelée" {
		t.Errorf("fr slime = %q", got)
	}
	if got := c.MonsterName(types.MonsterOrc); got != "Orque" {
		t.Errorf("fr orc = %q", got)
	}
	if got := c.MonsterName(types.MonsterGoblin); got != "Goblin" {
		t.Errorf("fr goblin should fall back to English, got %q", got)
	}
	if c.Locale().String() != "fr" {
		t.Errorf("Locale = %s", c.Locale())
	}
}

func TestNew_BadLocale(t *testing.T) {
	if _, err := New("not a locale!", nil); err == nil {
		t.Fatal("expected error for malformed locale")
	}
}

func TestKindsHaveDefaults(t *testing.T) {
	for _, k := range Kinds {
		if defaultNames[k] == "" {
			t.Errorf("no default name for %s", k)
		}
	}
}
