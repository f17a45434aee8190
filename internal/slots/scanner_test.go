package slots_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/clock"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/slots"
	"github.com/kuitang/screening-ui/internal/widgetsim"
)

var gridSelectors = slots.Selectors{
	Header:    widgetsim.SlotHeader,
	PrevMonth: widgetsim.SlotPrevMonth,
	NextMonth: widgetsim.SlotNextMonth,
	Cells:     widgetsim.SlotCells,
}

func june2025() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, time.June, 9, 9, 0, 0, 0, time.UTC))
}

func busyPage() []widgetsim.SlotDay {
	return []widgetsim.SlotDay{
		{Label: "1", Color: "rgb(255, 0, 0)", Name: "d1"},
		{Label: "2", Color: "rgb(128, 128, 128)", Name: "d2"},
	}
}

// =============================================================================
// FindEarliestSlot
// =============================================================================

func TestFindEarliestSlot_ThirdPage(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: busyPage(),
		1: busyPage(),
		2: {
			{Label: "3", Color: "rgb(255, 0, 0)", Name: "d3"},
			{Label: "14", Color: "rgb(0, 128, 0)", Name: "d14"},
			{Label: "15", Color: "rgb(0, 128, 0)", Name: "d15"},
		},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, slot.Page)
	assert.Equal(t, "14", slot.Cell.TrimmedLabel())
	assert.Equal(t, slots.ColorToken("green"), slot.Color)
	assert.Equal(t, 2, grid.Count("click "+widgetsim.SlotNextMonth))
	assert.Zero(t, grid.Count("click "+widgetsim.SlotPrevMonth))

	clicked, ok := grid.Clicked()
	require.True(t, ok)
	assert.Equal(t, 1, clicked.Index)
	assert.Equal(t, 2, grid.Offset())
}

func TestFindEarliestSlot_FirstPageStopsEarly(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: {{Label: "20", Color: "Green", Name: "d20"}},
		1: {{Label: "2", Color: "rgb(0, 128, 0)", Name: "d2"}},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"rgb(0,128,0)"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Page)
	assert.Equal(t, "20", slot.Cell.TrimmedLabel())
	assert.Zero(t, grid.Count("click "+widgetsim.SlotNextMonth))
	assert.Equal(t, []string{"scan 0", "pick 20"}, grid.Actions())
}

func TestFindEarliestSlot_SkipsLongNameCells(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: {
			{Label: "4", Color: "rgb(0, 128, 0)", Name: "long4"},
			{Label: "5", Color: "rgb(0, 128, 0)", Name: "d5"},
		},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "5", slot.Cell.TrimmedLabel())
}

func TestFindEarliestSlot_AlignsToCurrentMonth(t *testing.T) {
	// The grid opens on August; June is two pages back.
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.August, 1), map[int][]widgetsim.SlotDay{
		-2: {{Label: "30", Color: "rgb(0, 128, 0)", Name: "d30"}},
		0:  {{Label: "1", Color: "rgb(0, 128, 0)", Name: "d1"}},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Page)
	assert.Equal(t, "30", slot.Cell.TrimmedLabel())
	assert.Equal(t, 2, grid.Count("click "+widgetsim.SlotPrevMonth))
	assert.Equal(t, -2, grid.Offset())
}

func TestFindEarliestSlot_NothingAvailable(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: busyPage(),
		1: busyPage(),
		2: busyPage(),
		3: {{Label: "1", Color: "rgb(0, 128, 0)", Name: "d1"}},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	_, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 3)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))
	assert.Contains(t, err.Error(), "no available appointments in 3 pages")
	assert.Equal(t, 3, grid.Count("scan 0")+grid.Count("scan 1")+grid.Count("scan 2"))
	assert.Zero(t, grid.Count("scan 3"))
	_, clicked := grid.Clicked()
	assert.False(t, clicked)
}

func TestFindEarliestSlot_DefaultPageBound(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), nil)
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	_, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 0)
	require.Error(t, err)
	assert.Equal(t, slots.DefaultMaxPages-1, grid.Count("click "+widgetsim.SlotNextMonth))
}

func TestFindEarliestSlot_BadHeader(t *testing.T) {
	scanner := slots.NewScanner(widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), nil), june2025(), slots.Selectors{
		Header:    widgetsim.SlotCells,
		PrevMonth: widgetsim.SlotPrevMonth,
		NextMonth: widgetsim.SlotNextMonth,
		Cells:     widgetsim.SlotCells,
	})
	_, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 3)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))
}

func TestFindEarliestSlot_MalformedHeaderIsFatal(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: {{Label: "9", Color: "rgb(0, 128, 0)", Name: "d9"}},
	})
	grid.OverrideHeader("Juni 2025")
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	_, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, 3)
	require.Error(t, err)
	assert.Equal(t, errs.Parse, errs.CodeOf(err))
	assert.Empty(t, grid.Actions())
	_, clicked := grid.Clicked()
	assert.False(t, clicked)
}

func testFindEarliestSlot_EmptyColorSetScansEveryPage(t *rapid.T) {
	maxPages := rapid.IntRange(1, 8).Draw(t, "max_pages")
	pages := make(map[int][]widgetsim.SlotDay)
	for p := 0; p < maxPages; p++ {
		n := rapid.IntRange(0, 5).Draw(t, "cells")
		for i := 0; i < n; i++ {
			pages[p] = append(pages[p], widgetsim.SlotDay{
				Label: rapid.StringMatching(`[1-9]`).Draw(t, "label"),
				Color: rapid.SampledFrom([]string{"rgb(0, 128, 0)", "rgb(255, 0, 0)", "green"}).Draw(t, "color"),
				Name:  rapid.StringMatching(`d[0-9]?`).Draw(t, "name"),
			})
		}
	}
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), pages)
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	_, err := scanner.FindEarliestSlot(context.Background(), nil, maxPages)
	if errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if got := grid.Count("click " + widgetsim.SlotNextMonth); got != maxPages-1 {
		t.Fatalf("page turns = %d, want %d", got, maxPages-1)
	}
	if _, clicked := grid.Clicked(); clicked {
		t.Fatal("empty colour set clicked a cell")
	}
}

func TestFindEarliestSlot_EmptyColorSetScansEveryPage(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testFindEarliestSlot_EmptyColorSetScansEveryPage)
}

func testFindEarliestSlot_PicksEarliestPage(t *rapid.T) {
	maxPages := rapid.IntRange(1, 6).Draw(t, "max_pages")
	pages := make(map[int][]widgetsim.SlotDay)
	firstFree := -1
	for p := 0; p < maxPages; p++ {
		if rapid.Bool().Draw(t, "free") {
			pages[p] = []widgetsim.SlotDay{{Label: "9", Color: "rgb(0, 128, 0)", Name: "d9"}}
			if firstFree < 0 {
				firstFree = p
			}
		} else {
			pages[p] = busyPage()
		}
	}
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), pages)
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green"}, maxPages)
	if firstFree < 0 {
		if errs.CodeOf(err) != errs.NotFound {
			t.Fatalf("expected not_found, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("FindEarliestSlot: %v", err)
	}
	if slot.Page != firstFree+1 {
		t.Fatalf("page = %d, want %d", slot.Page, firstFree+1)
	}
	if grid.Offset() != firstFree {
		t.Fatalf("grid left on offset %d, want %d", grid.Offset(), firstFree)
	}
}

func TestFindEarliestSlot_PicksEarliestPage(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testFindEarliestSlot_PicksEarliestPage)
}

func TestFindEarliestSlot_MatchesHexToken(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), map[int][]widgetsim.SlotDay{
		0: {{Label: "12", Color: "rgb(0, 128, 0)", Name: "d12"}},
	})
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	slot, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"#008000"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "12", slot.Cell.TrimmedLabel())
	assert.Equal(t, slots.ColorToken("#008000"), slot.Color)
}

func TestFindEarliestSlot_RejectsMalformedHex(t *testing.T) {
	grid := widgetsim.NewSlotGrid(calendar.New(2025, time.June, 1), nil)
	scanner := slots.NewScanner(grid, june2025(), gridSelectors)

	_, err := scanner.FindEarliestSlot(context.Background(), []slots.ColorToken{"green", "#00gg00"}, 1)
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
	assert.Empty(t, grid.Actions())
}

// =============================================================================
// Colour normalisation
// =============================================================================

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"green":                "rgb(0,128,0)",
		"  GREEN ":             "rgb(0,128,0)",
		"rgb(0, 128, 0)":       "rgb(0,128,0)",
		"rgba(0, 128, 0, 1)":   "rgb(0,128,0)",
		"rgba(0, 128, 0, 0.5)": "rgba(0,128,0,0.5)",
		"Gray":                 "rgb(128,128,128)",
		"#00ff00":              "rgb(0,255,0)",
		"#0F0":                 "rgb(0,255,0)",
		"#ffa500":              "rgb(255,165,0)",
		"#12345":               "#12345",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slots.NormalizeColor(in), "NormalizeColor(%q)", in)
	}
}
