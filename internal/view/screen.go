package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/scene"
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const (
	// World units covered by one screen column. Rows cover twice as much
	// because terminal cells are about twice as tall as wide.
	colUnits = 1.0 / terrain.CellsPerUnit
	rowUnits = 2 * colUnits
)

// Options configures a View.
type Options struct {
	DigRadius  float32
	EmitRadius float32
	Logger     *zap.Logger
}

// View is an interactive terminal view of a set of terrain actors. The
// cursor digs and emits material; dug material is kept in an inventory that
// emitting draws from.
type View struct {
	screen tcell.Screen
	actors []*scene.Actor
	opts   Options
	log    *zap.Logger

	camera    math.Vec2
	cursor    math.Vec2
	material  terrain.Cell
	inventory map[terrain.Cell]int
	status    string
}

// New creates a view over actors drawn on screen. The screen must already
// be initialized.
func New(screen tcell.Screen, actors []*scene.Actor, opts Options) *View {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		screen:    screen,
		actors:    actors,
		opts:      opts,
		log:       log,
		material:  terrain.Dirt,
		inventory: make(map[terrain.Cell]int),
	}
}

// Cursor returns the cursor position in world space.
func (v *View) Cursor() math.Vec2 {
	return v.cursor
}

// Inventory returns the dug cell count for c.
func (v *View) Inventory(c terrain.Cell) int {
	return v.inventory[c]
}

// ScreenToWorld returns the world point sampled by screen cell (col, row).
func (v *View) ScreenToWorld(col, row int) math.Vec2 {
	w, h := v.screen.Size()
	return v.camera.Add(math.V2(
		float32(col-w/2)*colUnits,
		float32(h/2-row)*rowUnits,
	))
}

// WorldToScreen returns the screen cell showing the world point p.
func (v *View) WorldToScreen(p math.Vec2) (col, row int) {
	w, h := v.screen.Size()
	d := p.Sub(v.camera)
	return w/2 + roundInt(d.X/colUnits), h/2 - roundInt(d.Y/rowUnits)
}

// At returns the first solid cell of any actor at the world point p.
func (v *View) At(p math.Vec2) (terrain.Cell, *scene.Actor) {
	for _, a := range v.actors {
		if c := a.ElementAt(p); c.Solid() {
			return c, a
		}
	}
	return terrain.Empty, nil
}

// Draw renders every actor, the cursor and the status line.
func (v *View) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	for row := 0; row < h-1; row++ {
		for col := 0; col < w; col++ {
			c, _ := v.At(v.ScreenToWorld(col, row))
			if c.Solid() {
				v.screen.SetContent(col, row, Glyph(c), nil, styleFor(c))
			}
		}
	}

	cx, cy := v.WorldToScreen(v.cursor)
	if cx >= 0 && cx < w && cy >= 0 && cy < h-1 {
		r, _, _, _ := v.screen.GetContent(cx, cy)
		if r == ' ' || r == 0 {
			r = '+'
		}
		v.screen.SetContent(cx, cy, r, nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true))
	}

	v.drawStatus(w, h)
	v.screen.Show()
}

func (v *View) drawStatus(w, h int) {
	line := fmt.Sprintf("(%.1f,%.1f) %s inv:%s", v.cursor.X, v.cursor.Y, v.material, v.inventoryString())
	if v.status != "" {
		line += " | " + v.status
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range []rune(line) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, h-1, r, nil, style)
	}
}

func (v *View) inventoryString() string {
	cells := make([]terrain.Cell, 0, len(v.inventory))
	for c := range v.inventory {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	s := ""
	for _, c := range cells {
		s += fmt.Sprintf(" %s=%d", c, v.inventory[c])
	}
	if s == "" {
		return " -"
	}
	return s
}

// HandleEvent processes one tcell event. It returns false when the view
// should close.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// HandleKey applies a key press. It returns false on quit.
func (v *View) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.move(-colUnits, 0)
	case tcell.KeyRight:
		v.move(colUnits, 0)
	case tcell.KeyUp:
		v.move(0, rowUnits)
	case tcell.KeyDown:
		v.move(0, -rowUnits)
	case tcell.KeyRune:
		return v.handleRune(r)
	}
	return true
}

func (v *View) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		v.move(-colUnits, 0)
	case 'l':
		v.move(colUnits, 0)
	case 'k':
		v.move(0, rowUnits)
	case 'j':
		v.move(0, -rowUnits)
	case ' ':
		v.dig()
	case 'e':
		v.emit()
	case 'c':
		v.camera = v.cursor
	case '1':
		v.material = terrain.Dirt
	case '2':
		v.material = terrain.Rock
	case '3':
		v.material = terrain.Sand
	}
	return true
}

func (v *View) move(dx, dy float32) {
	v.cursor = v.cursor.Add(math.V2(dx, dy))
	if _, a := v.At(v.cursor); a != nil {
		v.status = a.Name
	} else {
		v.status = ""
	}
}

func (v *View) dig() {
	total := 0
	for _, a := range v.actors {
		if !a.FindElementNear(v.cursor) && !a.ContainsPoint(v.cursor) {
			continue
		}
		for c, n := range a.Dig(v.cursor, v.opts.DigRadius) {
			v.inventory[c] += n
			total += n
		}
	}
	v.status = fmt.Sprintf("dug %d", total)
	v.log.Debug("dig",
		zap.Float32("x", v.cursor.X),
		zap.Float32("y", v.cursor.Y),
		zap.Int("cells", total))
}

// emit fills empty cells around the cursor from the inventory, into the
// actor under or nearest the cursor.
func (v *View) emit() {
	target := v.target()
	if target == nil {
		v.status = "nothing to emit into"
		return
	}
	if v.inventory[v.material] == 0 {
		v.status = fmt.Sprintf("no %s", v.material)
		return
	}
	n, err := target.EmitUpTo(v.cursor, v.opts.EmitRadius, v.material, v.inventory[v.material])
	if err != nil {
		v.status = err.Error()
		v.log.Warn("emit failed", zap.String("actor", target.Name), zap.Error(err))
	}
	v.inventory[v.material] -= n
	if err == nil {
		v.status = fmt.Sprintf("emitted %d into %s", n, target.Name)
	}
}

func (v *View) target() *scene.Actor {
	for _, a := range v.actors {
		if a.FindElementNear(v.cursor) || a.ContainsPoint(v.cursor) {
			return a
		}
	}
	var best *scene.Actor
	var bestDist float32
	for _, a := range v.actors {
		b := a.Bounds()
		if b.Empty() {
			continue
		}
		center := b.Min.Add(b.Max).Scale(0.5)
		if d := center.Distance(v.cursor); best == nil || d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// Run draws at fps frames per second and handles events until quit.
func (v *View) Run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.Draw()
		}
	}
}

func styleFor(c terrain.Cell) tcell.Style {
	switch c {
	case terrain.Dirt:
		return tcell.StyleDefault.Foreground(tcell.ColorOlive)
	case terrain.Rock:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case terrain.Sand:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple)
	}
}

func roundInt(f float32) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
