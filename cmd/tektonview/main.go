// Command tektonview animates the continuous refiner in the terminal:
// one generation per frame, best gene drawn as colored rectangles.
// Space pauses, q or Escape quits.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"tekton/internal/planconfig"
	"tekton/internal/population"
	"tekton/internal/vmath"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tektonview", flag.ContinueOnError)
	configPath := fs.String("config", "", "plan config JSON path")
	seedFlag := fs.Uint("seed", 42, "random seed")
	fps := fs.Int("fps", 60, "generations per second")
	if err := fs.Parse(args); err != nil {
		return err
	}
	plan, err := planconfig.Load(*configPath)
	if err != nil {
		return err
	}
	seed := uint32(*seedFlag)
	if plan.Seed != nil {
		seed = *plan.Seed
	}

	boundary := vmath.Polygon(plan.Boundary)
	base := population.BaseRoomsFromRequests(plan.Rooms, boundary)
	collection, err := population.NewCollection(boundary, base, plan.Adjacencies, plan.Spring, seed)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

	interval := time.Second / time.Duration(vmath.Clamp(*fps, 1, 240))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	paused := false
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					paused = !paused
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if !paused {
				collection.Iterate()
			}
			draw(screen, boundary, collection, paused)
		}
	}
}

var roomStyles = []tcell.Style{
	tcell.StyleDefault.Background(tcell.ColorDarkRed),
	tcell.StyleDefault.Background(tcell.ColorDarkGreen),
	tcell.StyleDefault.Background(tcell.ColorNavy),
	tcell.StyleDefault.Background(tcell.ColorDarkMagenta),
	tcell.StyleDefault.Background(tcell.ColorDarkCyan),
	tcell.StyleDefault.Background(tcell.ColorOlive),
}

func draw(screen tcell.Screen, boundary vmath.Polygon, collection *population.Collection, paused bool) {
	screen.Clear()
	width, height := screen.Size()
	statusRows := 2
	if height <= statusRows || width < 2 {
		screen.Show()
		return
	}

	box := vmath.AABBFromPolygon(boundary)
	// Terminal cells are roughly twice as tall as wide; draw two
	// columns per world unit to keep rectangles square-ish.
	scaleX := float64(width) / (box.Width() * 2)
	scaleY := float64(height-statusRows) / box.Height()
	scale := vmath.Min(scaleX, scaleY)

	toScreen := func(p vmath.Vec2) (int, int) {
		return int((p.X - box.MinX) * scale * 2), int((p.Y - box.MinY) * scale)
	}

	// Boundary outline.
	outline := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := range boundary {
		drawLine(screen, boundary[i], boundary[(i+1)%len(boundary)], toScreen, outline)
	}

	best := collection.Best()
	for i, room := range best.Rooms {
		style := roomStyles[i%len(roomStyles)]
		x0, y0 := toScreen(vmath.Vec2{X: room.X, Y: room.Y})
		x1, y1 := toScreen(vmath.Vec2{X: room.X + room.Width, Y: room.Y + room.Height})
		fillRect(screen, x0, y0, x1, y1, style)
		drawLabel(screen, x0+1, y0, room.ID, style)
	}

	stats := collection.Stats()
	status := fmt.Sprintf("gen %d  best %.4f  geo %.4f  topo %.4f", collection.Generation(), stats.Best, stats.BestGeometric, stats.BestTopological)
	if paused {
		status += "  [paused]"
	}
	drawLabel(screen, 0, height-1, status, tcell.StyleDefault)
	drawLabel(screen, 0, height-2, "space pause  q quit", tcell.StyleDefault.Foreground(tcell.ColorGray))
	screen.Show()
}

func fillRect(screen tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func drawLabel(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawLine walks the segment at sub-cell resolution; good enough for a
// boundary outline.
func drawLine(screen tcell.Screen, a, b vmath.Vec2, toScreen func(vmath.Vec2) (int, int), style tcell.Style) {
	steps := int(a.Distance(b) * 4)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := toScreen(a.Add(b.Sub(a).Scale(t)))
		screen.SetContent(x, y, '·', nil, style)
	}
}
