// Package command parses the text commands shells use to mutate an
// ensemble between ticks.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/particlebox/internal/ensemble"
)

// MaxSimulate bounds a single "simulate" request.
const MaxSimulate = 10000

var ErrUnknown = errors.New("command: unknown")

// Command is one ensemble mutation requested by a client.
type Command struct {
	Op                string
	Speed, Size, Mass int
	N                 int
}

// Parse accepts "add <speed> <size> <mass>", "remove", "clear" and
// "simulate <n>".
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrUnknown)
	}

	cmd := Command{Op: fields[0]}
	args, err := atoiAll(fields[1:])
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", cmd.Op, err)
	}

	switch cmd.Op {
	case "add":
		if len(args) != 3 {
			return Command{}, fmt.Errorf("add: expected 3 arguments, got %d", len(args))
		}
		cmd.Speed, cmd.Size, cmd.Mass = args[0], args[1], args[2]
	case "simulate":
		if len(args) != 1 || args[0] < 0 {
			return Command{}, fmt.Errorf("simulate: expected one non-negative count")
		}
		if args[0] > MaxSimulate {
			return Command{}, fmt.Errorf("simulate: count %d exceeds %d", args[0], MaxSimulate)
		}
		cmd.N = args[0]
	case "remove", "clear":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s: takes no arguments", cmd.Op)
		}
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknown, cmd.Op)
	}
	return cmd, nil
}

// Apply runs the command against m. No-op outcomes come back as the
// ensemble sentinel errors.
func (c Command) Apply(m *ensemble.Manager) error {
	switch c.Op {
	case "add":
		_, err := m.Add(c.Speed, c.Size, c.Mass)
		return err
	case "remove":
		_, err := m.Remove()
		return err
	case "clear":
		m.Clear()
	case "simulate":
		m.Simulate(c.N)
	default:
		return fmt.Errorf("%w: %s", ErrUnknown, c.Op)
	}
	return nil
}

func atoiAll(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
