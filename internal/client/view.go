package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/ordering"
	"github.com/dtroode/roundrobin/internal/phone"
)

// Backend is the remote roster a View writes to.
type Backend interface {
	List(ctx context.Context) ([]model.Entry, error)
	Add(ctx context.Context, name, phoneNumber, region string) (model.Entry, error)
	Update(ctx context.Context, id uuid.UUID, name, phoneNumber, region string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CommitOrder(ctx context.Context, ids []uuid.UUID) error
}

// View dispatches roster intents and renders the mirror.
type View struct {
	backend Backend
	mirror  *Mirror
}

func NewView(backend Backend, mirror *Mirror) *View {
	return &View{backend: backend, mirror: mirror}
}

// Refresh loads the roster from the server into the mirror.
func (v *View) Refresh(ctx context.Context) error {
	entries, err := v.backend.List(ctx)
	if err != nil {
		return err
	}
	v.mirror.Apply(ordering.Sort(entries))
	return nil
}

func (v *View) Add(ctx context.Context, name, phoneNumber, region string) (model.Entry, error) {
	entry, err := v.backend.Add(ctx, name, phoneNumber, region)
	if err != nil {
		return model.Entry{}, err
	}
	return entry, v.Refresh(ctx)
}

func (v *View) Edit(ctx context.Context, id uuid.UUID, name, phoneNumber, region string) error {
	if err := v.backend.Update(ctx, id, name, phoneNumber, region); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

func (v *View) Delete(ctx context.Context, id uuid.UUID) error {
	if err := v.backend.Delete(ctx, id); err != nil {
		return err
	}
	return v.Refresh(ctx)
}

// Move places movedID at targetID's position. The new order is shown
// immediately and then committed. On failure the mirror is reloaded from
// the server and the commit error is returned.
func (v *View) Move(ctx context.Context, movedID, targetID uuid.UUID) error {
	if !v.mirror.Loaded() {
		if err := v.Refresh(ctx); err != nil {
			return err
		}
	}

	current := v.mirror.Entries()
	reordered, err := ordering.Reorder(current, movedID, targetID)
	if err != nil {
		return err
	}
	if len(ordering.Changed(current, reordered)) == 0 {
		return nil
	}

	v.mirror.Speculate(reordered)

	if err := v.backend.CommitOrder(ctx, ordering.IDs(reordered)); err != nil {
		v.mirror.Discard()
		if rerr := v.Refresh(ctx); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	return v.Refresh(ctx)
}

// Render writes the displayed roster as a table.
func (v *View) Render(w io.Writer) error {
	entries := v.mirror.Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Roster is empty.")
		return err
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	busy := cell.Foreground(lipgloss.Color("9"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("#", "NAME", "PHONE", "STATUS", "ID").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 3 && entries[row].Status != model.StatusAvailable:
				return busy
			default:
				return cell
			}
		})

	for i, e := range entries {
		t.Row(
			fmt.Sprint(i+1),
			e.DisplayName(),
			phone.Display(e.PhoneNumber),
			string(e.Status),
			e.ID.String(),
		)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if v.mirror.Speculating() {
		_, err := fmt.Fprintln(w, "(saving order...)")
		return err
	}
	return nil
}
