package navigator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/page"
)

// dayTieBreak splits duplicated day labels: overflow days before it come
// from the previous month, after it from the next month.
const dayTieBreak = 15

// ResolveDay picks the cell for day among the grid's cells.
// Only visible cells whose trimmed label is the plain numeral count. With
// duplicates, days below the tie-break take the first match in document
// order and days above it take the last.
func ResolveDay(day int, cells []page.Cell) (page.Cell, error) {
	label := strconv.Itoa(day)
	candidates := page.VisibleWithLabel(cells, label)
	switch {
	case len(candidates) == 0:
		return page.Cell{}, errs.New(errs.NotFound, fmt.Sprintf("no visible day cell labelled %q", label))
	case len(candidates) == 1:
		return candidates[0], nil
	case day > dayTieBreak:
		return candidates[len(candidates)-1], nil
	default:
		return candidates[0], nil
	}
}

// SelectDay reads the day grid, resolves day and clicks the chosen cell.
func SelectDay(ctx context.Context, acc page.Accessor, selector string, day int) (page.Cell, error) {
	cells, err := acc.QueryAll(ctx, selector)
	if err != nil {
		return page.Cell{}, fmt.Errorf("read day cells: %w", err)
	}
	cell, err := ResolveDay(day, cells)
	if err != nil {
		return page.Cell{}, err
	}
	if err := acc.ClickCell(ctx, cell); err != nil {
		return page.Cell{}, fmt.Errorf("click day %d: %w", day, err)
	}
	return cell, nil
}
