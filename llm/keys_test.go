package llm

import "testing"

func TestRoundRobinKeysCycle(t *testing.T) {
	chooser := NewRoundRobinKeys("k1", "k2", "k3")

	got := []string{chooser.Next(), chooser.Next(), chooser.Next(), chooser.Next()}
	want := []string{"k1", "k2", "k3", "k1"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRoundRobinKeysEmpty(t *testing.T) {
	chooser := NewRoundRobinKeys()
	if key := chooser.Next(); key != "" {
		t.Errorf("expected empty key from empty chooser, got %q", key)
	}
}

func TestRandomKeysOnlyConfiguredKeys(t *testing.T) {
	keys := map[string]bool{"a": true, "b": true, "c": true}
	chooser := NewRandomKeys(42, "a", "b", "c")

	for i := 0; i < 50; i++ {
		key := chooser.Next()
		if !keys[key] {
			t.Fatalf("draw %d returned unknown key %q", i, key)
		}
	}
}

func TestRandomKeysDeterministicSeed(t *testing.T) {
	first := NewRandomKeys(7, "a", "b", "c")
	second := NewRandomKeys(7, "a", "b", "c")

	for i := 0; i < 20; i++ {
		if got, want := second.Next(), first.Next(); got != want {
			t.Fatalf("draw %d diverged: %q vs %q", i, got, want)
		}
	}
}

func TestStaticKeyAlwaysSame(t *testing.T) {
	chooser := StaticKey("only")
	for i := 0; i < 3; i++ {
		if key := chooser.Next(); key != "only" {
			t.Errorf("expected static key, got %q", key)
		}
	}
}

func TestSplitKeys(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"k1", []string{"k1"}},
		{"k1,k2", []string{"k1", "k2"}},
		{" k1 , k2 ,", []string{"k1", "k2"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitKeys(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("splitKeys(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitKeys(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}
