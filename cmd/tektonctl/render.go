package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"tekton/internal/discrete"
	"tekton/internal/grid"
	"tekton/internal/planconfig"
	"tekton/internal/vmath"
)

// cellPalette cycles per room index when the output is a terminal.
var cellPalette = []string{"41", "42", "43", "44", "45", "46", "101", "102", "103", "104"}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	configPath := fs.String("config", "", "plan config JSON path")
	noColor := fs.Bool("no-color", false, "force plain-text output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	plan, err := planconfig.Load(*configPath)
	if err != nil {
		return err
	}

	seed := uint32(0)
	if plan.Seed != nil {
		seed = *plan.Seed
	}
	solver, err := discrete.NewSolver(vmath.Polygon(plan.Boundary), plan.Rooms, plan.Adjacencies, plan.Discrete, seed)
	if err != nil {
		return err
	}
	solver.Solve()

	color := !*noColor && isatty.IsTerminal(os.Stdout.Fd())
	fmt.Print(renderGrid(solver.Grid(), color))

	fmt.Printf("\nplaced %d/%d rooms, corridor connected: %v\n",
		len(solver.PlacedRooms()), len(plan.Rooms), solver.Connected())
	for _, room := range plan.Rooms {
		if p, ok := solver.PlacedRooms()[room.ID]; ok {
			fmt.Printf("  %c %s\n", cellRune(p.RoomIndex), room.ID)
		}
	}
	return nil
}

func renderGrid(g *grid.Buffer, color bool) string {
	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := g.At(x, y)
			switch {
			case v == grid.OutOfBounds:
				b.WriteByte(' ')
			case v == grid.Empty:
				b.WriteByte('.')
			case v == grid.Corridor:
				if color {
					b.WriteString("\x1b[47m+\x1b[0m")
				} else {
					b.WriteByte('+')
				}
			default:
				if color {
					code := cellPalette[(v-1)%len(cellPalette)]
					fmt.Fprintf(&b, "\x1b[%sm%c\x1b[0m", code, cellRune(v))
				} else {
					b.WriteRune(cellRune(v))
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// cellRune labels room indices A..Z, then a..z, then '#'.
func cellRune(index int) rune {
	switch {
	case index >= 1 && index <= 26:
		return rune('A' + index - 1)
	case index >= 27 && index <= 52:
		return rune('a' + index - 27)
	default:
		return '#'
	}
}
