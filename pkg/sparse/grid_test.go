package sparse

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Faultbox/midgard-terrain/pkg/geom"
)

// checkBoxes verifies the inner box always fits the allocation.
func checkBoxes[T comparable](t *testing.T, g *Grid[T]) {
	t.Helper()
	inner, outer := g.InnerBox(), g.OuterBox()
	if !outer.ContainsBox(inner) {
		t.Fatalf("inner %v not inside outer %v", inner, outer)
	}
	if outer.Width() < inner.Width() || outer.Height() < inner.Height() {
		t.Fatalf("outer %v smaller than inner %v", outer, inner)
	}
}

func TestNewGridIsEmpty(t *testing.T) {
	g := New[uint8]()
	if !g.IsEmpty() {
		t.Error("new grid should be empty")
	}
	if !g.OuterBox().Empty() {
		t.Errorf("new grid outer box = %v, want empty", g.OuterBox())
	}
	if got := g.Get(0, 0); got != 0 {
		t.Errorf("Get(0,0) = %d, want 0", got)
	}
	if got := g.Get(-1000, 1<<20); got != 0 {
		t.Errorf("Get(far) = %d, want 0", got)
	}
}

func TestFirstWriteAllocatesPadding(t *testing.T) {
	g := New[uint8]()
	if err := g.Set(5, -3, 7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := g.InnerBox(); got != geom.PointBox(5, -3) {
		t.Errorf("InnerBox() = %v, want single cell", got)
	}
	want := geom.Box{X0: 4, Y0: -4, X1: 7, Y1: -1}
	if got := g.OuterBox(); got != want {
		t.Errorf("OuterBox() = %v, want %v", got, want)
	}
	if got := g.Get(5, -3); got != 7 {
		t.Errorf("Get() = %d, want 7", got)
	}
}

func TestWriteInsideOuterExpandsWithoutGrowing(t *testing.T) {
	grows := 0
	g := New[uint8](WithGrowHook(func(from, to geom.Box) { grows++ }))
	_ = g.Set(0, 0, 1)
	outer := g.OuterBox()
	_ = g.Set(1, 1, 2)

	if grows != 1 {
		t.Errorf("grows = %d, want 1", grows)
	}
	if g.OuterBox() != outer {
		t.Errorf("outer box changed from %v to %v", outer, g.OuterBox())
	}
	want := geom.Box{X0: 0, Y0: 0, X1: 2, Y1: 2}
	if got := g.InnerBox(); got != want {
		t.Errorf("InnerBox() = %v, want %v", got, want)
	}
}

func TestGrowthPreservesValues(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := New[int]()
	written := make(map[[2]int]int)

	for i := 0; i < 2000; i++ {
		x := rng.Intn(400) - 200
		y := rng.Intn(400) - 200
		v := rng.Intn(9) + 1
		if err := g.Set(x, y, v); err != nil {
			t.Fatalf("Set(%d,%d) error = %v", x, y, err)
		}
		written[[2]int{x, y}] = v
		checkBoxes(t, g)
	}

	for p, v := range written {
		if got := g.Get(p[0], p[1]); got != v {
			t.Errorf("Get(%d,%d) = %d, want %d", p[0], p[1], got, v)
		}
	}
}

func TestSparseFarApartWrites(t *testing.T) {
	g := New[uint8]()
	points := [][2]int{{0, 0}, {300, 0}, {-300, 150}, {3, -600}, {0, 0}}
	for i, p := range points {
		if err := g.Set(p[0], p[1], uint8(i+1)); err != nil {
			t.Fatalf("Set(%v) error = %v", p, err)
		}
		checkBoxes(t, g)
	}
	if got := g.Get(300, 0); got != 2 {
		t.Errorf("Get(300,0) = %d, want 2", got)
	}
	if got := g.Get(0, 0); got != 5 {
		t.Errorf("Get(0,0) = %d, want 5", got)
	}
	want := geom.Box{X0: -300, Y0: -600, X1: 301, Y1: 151}
	if got := g.InnerBox(); got != want {
		t.Errorf("InnerBox() = %v, want %v", got, want)
	}
}

func TestEdgeGrowthIsLogarithmic(t *testing.T) {
	grows := 0
	g := New[uint8](WithGrowHook(func(from, to geom.Box) { grows++ }))
	for x := 0; x < 4096; x++ {
		if err := g.Set(x, 0, 1); err != nil {
			t.Fatalf("Set(%d) error = %v", x, err)
		}
	}
	// Each grow pushes the leading edge out by about 0.7 of the width.
	if grows > 16 {
		t.Errorf("grows = %d for 4096 sequential writes, want <= 16", grows)
	}
}

func TestRemoveThenReAdd(t *testing.T) {
	g := New[uint8]()
	_ = g.Set(2, 2, 9)
	if err := g.Set(2, 2, 0); err != nil {
		t.Fatalf("clear error = %v", err)
	}
	if got := g.Get(2, 2); got != 0 {
		t.Errorf("Get() after clear = %d, want 0", got)
	}
	if g.Normalized() {
		t.Error("clearing an inner cell should mark the grid stale")
	}
	_ = g.Set(2, 2, 4)
	if got := g.Get(2, 2); got != 4 {
		t.Errorf("Get() after re-add = %d, want 4", got)
	}
}

func TestClearOutsideInnerIsNoop(t *testing.T) {
	g := New[uint8]()
	_ = g.Set(0, 0, 1)
	before := g.InnerBox()
	_ = g.Set(50, 50, 0)
	_ = g.Set(1, 0, 0) // inside outer but outside inner
	if g.InnerBox() != before {
		t.Errorf("InnerBox() = %v, want %v", g.InnerBox(), before)
	}
	if !g.Normalized() {
		t.Error("clearing outside the inner box should not mark the grid stale")
	}
}

func TestNormalizeShrinksAndIsIdempotent(t *testing.T) {
	g := New[uint8]()
	for x := 0; x < 10; x++ {
		_ = g.Set(x, x, 1)
	}
	for x := 0; x < 8; x++ {
		_ = g.Set(x, x, 0)
	}
	stale := g.InnerBox()
	if stale.Width() != 10 {
		t.Fatalf("stale inner box = %v, want width 10", stale)
	}

	g.Normalize()
	first := g.InnerBox()
	want := geom.Box{X0: 8, Y0: 8, X1: 10, Y1: 10}
	if first != want {
		t.Errorf("InnerBox() after Normalize = %v, want %v", first, want)
	}
	if !g.Normalized() {
		t.Error("Normalized() = false after Normalize")
	}
	g.Normalize()
	if g.InnerBox() != first {
		t.Errorf("second Normalize changed inner box to %v", g.InnerBox())
	}
}

func TestNormalizeAllCleared(t *testing.T) {
	g := New[uint8]()
	_ = g.Set(3, 4, 1)
	_ = g.Set(3, 4, 0)
	if g.IsEmpty() {
		t.Error("stale grid should still report its old extent")
	}
	g.Normalize()
	if !g.IsEmpty() {
		t.Errorf("IsEmpty() = false after normalizing, inner %v", g.InnerBox())
	}
}

func TestGrowNormalizesFirst(t *testing.T) {
	var last geom.Box
	g := New[uint8](WithGrowHook(func(from, to geom.Box) { last = to }))
	for x := 0; x < 20; x++ {
		_ = g.Set(x, 0, 1)
	}
	for x := 0; x < 19; x++ {
		_ = g.Set(x, 0, 0)
	}
	_ = g.Set(19, 100, 1)
	want := geom.Box{X0: 19, Y0: 0, X1: 20, Y1: 101}
	if got := g.InnerBox(); got != want {
		t.Errorf("InnerBox() = %v, want %v", got, want)
	}
	// Width 1 pads by 1, height 101 pads by round(0.5*sqrt2*101) = 71.
	wantOuter := geom.Box{X0: 18, Y0: -71, X1: 21, Y1: 172}
	if last != wantOuter {
		t.Errorf("outer after grow = %v, want %v", last, wantOuter)
	}
}

func TestMaxExtent(t *testing.T) {
	g := New[uint8](WithMaxExtent(64))
	if err := g.Set(0, 0, 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	err := g.Set(100, 0, 1)
	if !errors.Is(err, ErrExtentExceeded) {
		t.Fatalf("Set() error = %v, want ErrExtentExceeded", err)
	}
	if got := g.Get(100, 0); got != 0 {
		t.Errorf("rejected write is visible: Get() = %d", got)
	}
	if got := g.Get(0, 0); got != 1 {
		t.Errorf("existing cell lost: Get() = %d", got)
	}
	if err := g.Set(63, 63, 1); err != nil {
		t.Errorf("write at the limit error = %v", err)
	}
}

func TestMaxExtentInsidePadding(t *testing.T) {
	g := New[uint8](WithMaxExtent(4))
	for _, x := range []int{0, 2, 3} {
		if err := g.Set(x, 0, 1); err != nil {
			t.Fatalf("Set(%d, 0) error = %v", x, err)
		}
	}
	outer := g.OuterBox()
	if !outer.Contains(-1, 0) {
		t.Fatalf("outer box %v should already cover (-1,0)", outer)
	}

	if err := g.Set(-1, 0, 1); !errors.Is(err, ErrExtentExceeded) {
		t.Fatalf("Set(-1, 0) error = %v, want ErrExtentExceeded", err)
	}
	if got := g.InnerBox(); got != (geom.Box{X0: 0, Y0: 0, X1: 4, Y1: 1}) {
		t.Errorf("InnerBox() = %v after rejected write", got)
	}
	if got := g.Get(-1, 0); got != 0 {
		t.Errorf("rejected write is visible: Get() = %d", got)
	}
	if g.OuterBox() != outer {
		t.Errorf("rejected write changed the buffer to %v", g.OuterBox())
	}
}

func TestMaxExtentStaleInnerBox(t *testing.T) {
	g := New[uint8](WithMaxExtent(4))
	for _, x := range []int{0, 2, 3} {
		_ = g.Set(x, 0, 1)
	}
	_ = g.Set(3, 0, 0)

	// The stale box is still [0,4); normalized it is [0,3) and (-1,0) fits.
	if err := g.Set(-1, 0, 1); err != nil {
		t.Fatalf("Set(-1, 0) error = %v", err)
	}
	if got := g.InnerBox(); got != (geom.Box{X0: -1, Y0: 0, X1: 3, Y1: 1}) {
		t.Errorf("InnerBox() = %v, want [-1,3)x[0,1)", got)
	}
}

func TestMaxExtentBoundsBuffer(t *testing.T) {
	const limit = 64
	g := New[uint8](WithMaxExtent(limit))
	for i := 0; i < limit; i++ {
		if err := g.Set(i, i, 1); err != nil {
			t.Fatalf("Set(%d, %d) error = %v", i, i, err)
		}
		outer := g.OuterBox()
		if outer.Width() > limit*3/2 || outer.Height() > limit*3/2 {
			t.Fatalf("outer box %v exceeds 1.5x the limit after %d writes", outer, i+1)
		}
	}
	if err := g.Set(limit, limit, 1); !errors.Is(err, ErrExtentExceeded) {
		t.Errorf("Set(%d, %d) error = %v, want ErrExtentExceeded", limit, limit, err)
	}
}

func TestCoordinateRange(t *testing.T) {
	g := New[uint8](WithMaxExtent(0))
	if err := g.Set(maxCoord+1, 0, 1); !errors.Is(err, ErrExtentExceeded) {
		t.Errorf("Set(huge) error = %v, want ErrExtentExceeded", err)
	}
}

func TestRangeOrderAndStop(t *testing.T) {
	g := New[uint8]()
	_ = g.Set(1, 1, 3)
	_ = g.Set(0, 0, 1)
	_ = g.Set(1, 0, 2)
	_ = g.Set(0, 1, 0)

	var got []uint8
	g.Range(func(x, y int, v uint8) bool {
		got = append(got, v)
		return true
	})
	want := []uint8{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Range visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Range()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	count := 0
	g.Range(func(x, y int, v uint8) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Range did not stop early, visited %d", count)
	}
}

func TestClear(t *testing.T) {
	g := New[uint8]()
	_ = g.Set(4, 4, 1)
	g.Clear()
	if !g.IsEmpty() || !g.OuterBox().Empty() {
		t.Error("Clear() should reset both boxes")
	}
	if got := g.Get(4, 4); got != 0 {
		t.Errorf("Get() after Clear = %d", got)
	}
}

func TestDeterministicBoxes(t *testing.T) {
	run := func() (geom.Box, geom.Box) {
		g := New[uint8]()
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 500; i++ {
			v := uint8(rng.Intn(3))
			_ = g.Set(rng.Intn(100)-50, rng.Intn(100)-50, v)
		}
		return g.InnerBox(), g.OuterBox()
	}
	i1, o1 := run()
	i2, o2 := run()
	if i1 != i2 || o1 != o2 {
		t.Errorf("runs differ: %v/%v vs %v/%v", i1, o1, i2, o2)
	}
}
