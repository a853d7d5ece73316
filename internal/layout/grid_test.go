package layout

import (
	"errors"
	"testing"
)

func TestToGridSingleNode(t *testing.T) {
	nodes := []GridInputNode{{ID: "a", X: 10, Y: 20, W: 100, H: 50}}

	got, err := ToGrid(nodes, 1280)
	if err != nil {
		t.Fatalf("ToGrid: %v", err)
	}

	if got.TemplateColumns != "100px" {
		t.Errorf("templateColumns = %q, want \"100px\"", got.TemplateColumns)
	}
	if got.TemplateRows != "50px" {
		t.Errorf("templateRows = %q, want \"50px\"", got.TemplateRows)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
	item := got.Items[0]
	want := GridItem{ID: "a", ColStart: 1, ColEnd: 2, RowStart: 1, RowEnd: 2}
	if item != want {
		t.Errorf("item = %+v, want %+v", item, want)
	}
}

func TestToGridMergesNearbyEdges(t *testing.T) {
	// Right edge of a (100) and left edge of b (102) are 2px apart and
	// collapse onto one shared grid line.
	nodes := []GridInputNode{
		{ID: "a", X: 0, Y: 0, W: 100, H: 50},
		{ID: "b", X: 102, Y: 0, W: 100, H: 50},
	}

	got, err := ToGrid(nodes, 1280)
	if err != nil {
		t.Fatalf("ToGrid: %v", err)
	}

	if len(got.ColWidthsPx) != 2 {
		t.Fatalf("colWidthsPx = %v, want two tracks sharing one middle line", got.ColWidthsPx)
	}
	if got.ColWidthsPx[0] != 101 || got.ColWidthsPx[1] != 101 {
		t.Errorf("colWidthsPx = %v, want [101 101]", got.ColWidthsPx)
	}

	a, b := got.Items[0], got.Items[1]
	if a.ColEnd != b.ColStart {
		t.Errorf("a ends at line %d but b starts at line %d, want shared line", a.ColEnd, b.ColStart)
	}
}

func TestToGridKeepsDistantEdgesApart(t *testing.T) {
	// A 10px gap stays two separate lines, yielding a gap track.
	nodes := []GridInputNode{
		{ID: "a", X: 0, Y: 0, W: 100, H: 50},
		{ID: "c", X: 110, Y: 0, W: 100, H: 50},
	}

	got, err := ToGrid(nodes, 1280)
	if err != nil {
		t.Fatalf("ToGrid: %v", err)
	}

	wantWidths := []int{100, 10, 100}
	if len(got.ColWidthsPx) != len(wantWidths) {
		t.Fatalf("colWidthsPx = %v, want %v", got.ColWidthsPx, wantWidths)
	}
	for i, w := range wantWidths {
		if got.ColWidthsPx[i] != w {
			t.Errorf("colWidthsPx[%d] = %d, want %d", i, got.ColWidthsPx[i], w)
		}
	}
	if got.TemplateColumns != "100px 10px 100px" {
		t.Errorf("templateColumns = %q", got.TemplateColumns)
	}

	a, c := got.Items[0], got.Items[1]
	if a.ColStart != 1 || a.ColEnd != 2 {
		t.Errorf("a placement = [%d, %d), want [1, 2)", a.ColStart, a.ColEnd)
	}
	if c.ColStart != 3 || c.ColEnd != 4 {
		t.Errorf("c placement = [%d, %d), want [3, 4)", c.ColStart, c.ColEnd)
	}
}

func TestToGridEmptyInput(t *testing.T) {
	_, err := ToGrid(nil, 1280)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestToGridDegenerateAxis(t *testing.T) {
	// Zero-width nodes collapse the X axis onto a single line.
	nodes := []GridInputNode{
		{ID: "a", X: 50, Y: 0, W: 0, H: 40},
		{ID: "b", X: 50, Y: 100, W: 0, H: 40},
	}

	_, err := ToGrid(nodes, 1280)
	if !errors.Is(err, ErrDegenerateLayout) {
		t.Errorf("err = %v, want ErrDegenerateLayout", err)
	}
}

func TestToGridRoundsTrackSizes(t *testing.T) {
	nodes := []GridInputNode{
		{ID: "a", X: 0, Y: 0, W: 4.4, H: 50},
		{ID: "b", X: 9, Y: 0, W: 91, H: 50},
	}

	got, err := ToGrid(nodes, 1280)
	if err != nil {
		t.Fatalf("ToGrid: %v", err)
	}

	// Lines land at 0, 4.4, 9 and 100: fractional deltas round to the
	// nearest whole pixel.
	wantWidths := []int{4, 5, 91}
	if len(got.ColWidthsPx) != len(wantWidths) {
		t.Fatalf("colWidthsPx = %v, want %v", got.ColWidthsPx, wantWidths)
	}
	for i, w := range wantWidths {
		if got.ColWidthsPx[i] != w {
			t.Errorf("colWidthsPx[%d] = %d, want %d", i, got.ColWidthsPx[i], w)
		}
	}
}

func TestTrackSizesFloorAtOnePixel(t *testing.T) {
	sizes := trackSizes([]float64{0, 0.3, 10.3})
	if sizes[0] != 1 {
		t.Errorf("sub-pixel delta = %d, want floored at 1", sizes[0])
	}
	if sizes[1] != 10 {
		t.Errorf("second track = %d, want 10", sizes[1])
	}
}
