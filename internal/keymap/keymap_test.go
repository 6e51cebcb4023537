//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"testing"
)

func TestByContext(t *testing.T) {
	tests := []struct {
		name            string
		context         string
		expectNonEmpty  bool
		expectMinLength int
	}{
		{"global context", "global", true, 2},
		{"playback context", "playback", true, 5},
		{"volume context", "volume", true, 3},
		{"input context", "input", true, 1},
		{"unknown context returns empty", "unknown", false, 0},
		{"empty context returns empty", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ByContext(tt.context)

			if tt.expectNonEmpty && len(result) == 0 {
				t.Errorf("ByContext(%q) returned empty, expected non-empty", tt.context)
			}

			if !tt.expectNonEmpty && len(result) != 0 {
				t.Errorf("ByContext(%q) returned %d items, expected empty", tt.context, len(result))
			}

			if len(result) < tt.expectMinLength {
				t.Errorf("ByContext(%q) returned %d items, expected at least %d", tt.context, len(result), tt.expectMinLength)
			}

			for _, b := range result {
				if b.Context != tt.context {
					t.Errorf("binding %v has context %q, expected %q", b.Keys, b.Context, tt.context)
				}
			}
		})
	}
}

func TestAll_NoKeyBoundTwice(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		if len(b.Keys) == 0 {
			t.Errorf("action %q has no keys", b.Action)
		}
		if b.Description == "" {
			t.Errorf("action %q has no description", b.Action)
		}
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestAll_ContextsAreListed(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range Contexts {
		known[c] = true
	}
	for _, b := range All {
		if !known[b.Context] {
			t.Errorf("binding %q uses unlisted context %q", b.Action, b.Context)
		}
	}
}
