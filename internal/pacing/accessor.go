package pacing

import (
	"context"

	"github.com/kuitang/screening-ui/internal/page"
)

// Accessor waits on a Pacer before forwarding every DOM-mutating or DOM-reading
// call to the wrapped accessor.
type Accessor struct {
	next  page.Accessor
	pacer *Pacer
}

// Wrap paces every call made through next.
func (p *Pacer) Wrap(next page.Accessor) *Accessor {
	return &Accessor{next: next, pacer: p}
}

func (a *Accessor) ReadText(ctx context.Context, selector string) (string, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return "", err
	}
	return a.next.ReadText(ctx, selector)
}

func (a *Accessor) Click(ctx context.Context, selector string) error {
	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}
	return a.next.Click(ctx, selector)
}

func (a *Accessor) Fill(ctx context.Context, selector, text string) error {
	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}
	return a.next.Fill(ctx, selector, text)
}

func (a *Accessor) QueryAll(ctx context.Context, selector string) ([]page.Cell, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	return a.next.QueryAll(ctx, selector)
}

func (a *Accessor) ClickCell(ctx context.Context, cell page.Cell) error {
	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}
	return a.next.ClickCell(ctx, cell)
}

// ComputedStyle is not paced: it reads a cell already fetched by QueryAll.
func (a *Accessor) ComputedStyle(ctx context.Context, cell page.Cell, property string) (string, error) {
	return a.next.ComputedStyle(ctx, cell, property)
}

func (a *Accessor) Evaluate(ctx context.Context, expression string, arg any) (any, error) {
	if err := a.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	return a.next.Evaluate(ctx, expression, arg)
}

var _ page.Accessor = (*Accessor)(nil)
