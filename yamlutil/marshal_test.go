package yamlutil

import "testing"

func TestMarshalUsesTwoSpaceIndent(t *testing.T) {
	t.Parallel()

	encoded, err := Marshal(map[string]any{"server": map[string]any{"host": "127.0.0.1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(encoded), "server:\n  host: 127.0.0.1\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
