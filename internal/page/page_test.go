package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellsFromRecords(t *testing.T) {
	raw := []any{
		map[string]any{"index": float64(0), "label": " 1 ", "background": "rgb(0, 128, 0)", "name": "a1", "visible": true},
		map[string]any{"index": 1, "label": "2", "visible": false},
		"garbage",
	}
	cells := CellsFromRecords("td.day", raw)
	assert.Len(t, cells, 3)
	assert.Equal(t, Cell{Selector: "td.day", Index: 0, Label: " 1 ", BackgroundColor: "rgb(0, 128, 0)", Name: "a1", Visible: true}, cells[0])
	assert.Equal(t, 1, cells[1].Index)
	assert.False(t, cells[1].Visible)
	assert.Equal(t, 2, cells[2].Index)
	assert.Empty(t, CellsFromRecords("td", nil))
}

func TestVisibleWithLabel(t *testing.T) {
	cells := []Cell{
		{Index: 0, Label: "30", Visible: true},
		{Index: 1, Label: " 1", Visible: true},
		{Index: 2, Label: "1 ", Visible: false},
		{Index: 3, Label: "1", Visible: true},
		{Index: 4, Label: "11", Visible: true},
	}
	got := VisibleWithLabel(cells, "1")
	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
}

func TestSettledScript_EmbedsThresholds(t *testing.T) {
	assert.Contains(t, SettledScript, "now - last >= 50;")
	assert.Contains(t, SettledScript, "now - window.__calnavMark >= 500;")
	assert.Contains(t, ArmScript, "window.__calnavMark = performance.now()")
}
