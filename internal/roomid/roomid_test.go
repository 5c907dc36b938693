package roomid

import (
	"testing"

	"github.com/Frank-III/PixeLana-further/internal/randutil"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	if len(id) != Length {
		t.Errorf("Expected %d characters, got %d", Length, len(id))
	}
	if err := Validate(id); err != nil {
		t.Errorf("Generated code failed validation: %v", err)
	}
}

func TestCryptoSourceRange(t *testing.T) {
	src := cryptoSource{}
	for i := 0; i < 1000; i++ {
		v := src.IntN(len(alphabet))
		if v < 0 || v >= len(alphabet) {
			t.Fatalf("IntN(%d) returned %d", len(alphabet), v)
		}
	}
}

func TestGenerateCoversAlphabet(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 2000; i++ {
		for _, b := range []byte(Generate()) {
			seen[b] = true
		}
	}
	for _, b := range []byte(alphabet) {
		if !seen[b] {
			t.Errorf("Digit %c never generated", b)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(randutil.New(42)).Generate()
	b := NewGenerator(randutil.New(42)).Generate()

	if a != b {
		t.Errorf("Same seed should produce the same code, got %q and %q", a, b)
	}

	c := NewGenerator(randutil.New(43)).Generate()
	if a == c {
		t.Errorf("Different seeds should produce different codes, both %q", a)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid", id: "042137"},
		{name: "too short", id: "12345", wantErr: true},
		{name: "too long", id: "1234567", wantErr: true},
		{name: "empty", id: "", wantErr: true},
		{name: "letters", id: "12a456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
