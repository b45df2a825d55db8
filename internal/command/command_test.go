package command

import (
	"errors"
	"testing"

	"github.com/san-kum/particlebox/internal/ensemble"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{"add 1 2 3", Command{Op: "add", Speed: 1, Size: 2, Mass: 3}, false},
		{"  ADD 5 5 5 ", Command{Op: "add", Speed: 5, Size: 5, Mass: 5}, false},
		{"remove", Command{Op: "remove"}, false},
		{"clear", Command{Op: "clear"}, false},
		{"simulate 10", Command{Op: "simulate", N: 10}, false},
		{"add 1 2", Command{}, true},
		{"add a b c", Command{}, true},
		{"simulate -1", Command{}, true},
		{"simulate 10000", Command{Op: "simulate", N: MaxSimulate}, false},
		{"simulate 10001", Command{}, true},
		{"simulate 4611686018427387904", Command{}, true},
		{"remove 3", Command{}, true},
		{"", Command{}, true},
		{"explode", Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("explode")
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestCommandApply(t *testing.T) {
	m, err := ensemble.New(ensemble.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if err := (Command{Op: "add", Speed: 1, Size: 1, Mass: 1}).Apply(m); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := (Command{Op: "simulate", N: 4}).Apply(m); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if m.Len() != 5 {
		t.Errorf("expected 5 particles, got %d", m.Len())
	}

	if err := (Command{Op: "remove"}).Apply(m); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := (Command{Op: "clear"}).Apply(m); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty ensemble, got %d", m.Len())
	}

	if err := (Command{Op: "remove"}).Apply(m); !errors.Is(err, ensemble.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if err := (Command{Op: "add", Speed: 9, Size: 1, Mass: 1}).Apply(m); !errors.Is(err, ensemble.ErrScaleRange) {
		t.Errorf("expected ErrScaleRange, got %v", err)
	}
}
