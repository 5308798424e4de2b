package board

import (
	"context"

	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/session"
)

// BeginDrag starts dragging tile id.
func (b *Board) BeginDrag(id string) error {
	return b.session.Begin(session.KindDrag, id)
}

// BeginResize starts resizing tile id.
func (b *Board) BeginResize(id string) error {
	return b.session.Begin(session.KindResize, id)
}

// Drag shows an intermediate drag proposal.
func (b *Board) Drag(proposed grid.Layout) error {
	if err := b.session.Drag(proposed); err != nil {
		return err
	}
	b.layout = b.session.Layout()
	return nil
}

// ResizeTo shows an intermediate resize proposal and reports whether the
// resize is rejected.
func (b *Board) ResizeTo(proposed grid.Layout) (bool, error) {
	rejected, err := b.session.Resize(proposed)
	if err != nil {
		return false, err
	}
	b.layout = b.session.Layout()
	return rejected, nil
}

// Stop ends the running interaction with the final proposal.
func (b *Board) Stop(ctx context.Context, proposed grid.Layout) (session.Result, error) {
	res, err := b.session.Stop(ctx, proposed)
	if err != nil {
		return res, err
	}
	b.layout = res.Layout.Clone()
	return res, nil
}

// Cancel abandons the running interaction.
func (b *Board) Cancel(ctx context.Context) session.Result {
	res := b.session.Cancel(ctx)
	b.layout = res.Layout.Clone()
	return res
}

// Move drags tile id to cell (x, y) in one step.
func (b *Board) Move(ctx context.Context, id string, x, y int) (session.Result, error) {
	if err := b.BeginDrag(id); err != nil {
		return session.Result{}, err
	}
	proposed := b.proposal(id, func(it *grid.Item) { it.X, it.Y = x, y })
	if err := b.Drag(proposed); err != nil {
		b.Cancel(ctx)
		return session.Result{}, err
	}
	return b.Stop(ctx, proposed)
}

// ResizeTile resizes tile id to w × h cells in one step.
func (b *Board) ResizeTile(ctx context.Context, id string, w, h int) (session.Result, error) {
	if err := b.BeginResize(id); err != nil {
		return session.Result{}, err
	}
	proposed := b.proposal(id, func(it *grid.Item) { it.W, it.H = w, h })
	if _, err := b.ResizeTo(proposed); err != nil {
		b.Cancel(ctx)
		return session.Result{}, err
	}
	return b.Stop(ctx, proposed)
}

// proposal returns the current layout with tile id changed by edit.
func (b *Board) proposal(id string, edit func(*grid.Item)) grid.Layout {
	l := b.layout.Clone()
	for i := range l {
		if l[i].ID == id {
			edit(&l[i])
		}
	}
	return l
}
