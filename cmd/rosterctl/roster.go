package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/roundrobin/internal/client"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/ordering"
)

func newView() *client.View {
	return client.NewView(rosterClient, client.NewMirror())
}

// resolveEntry finds an entry by its 1-based position, full id or unique
// id prefix.
func resolveEntry(entries []model.Entry, ref string) (model.Entry, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(entries) {
			return model.Entry{}, fmt.Errorf("position %d out of range 1..%d", n, len(entries))
		}
		return entries[n-1], nil
	}

	ref = strings.ToLower(ref)
	var found []model.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.ID.String(), ref) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return model.Entry{}, fmt.Errorf("no roster user matches %q", ref)
	case 1:
		return found[0], nil
	default:
		return model.Entry{}, fmt.Errorf("%q matches %d roster users", ref, len(found))
	}
}

// lookup loads the roster and resolves refs against it.
func lookup(ctx context.Context, refs ...string) ([]model.Entry, error) {
	entries, err := rosterClient.List(ctx)
	if err != nil {
		return nil, err
	}
	entries = ordering.Sort(entries)

	out := make([]model.Entry, len(refs))
	for i, ref := range refs {
		e, err := resolveEntry(entries, ref)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show the roster in routing order",
	GroupID: "roster",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := newView()
		if err := view.Refresh(context.Background()); err != nil {
			return err
		}
		return view.Render(cmd.OutOrStdout())
	},
}

var addCmd = &cobra.Command{
	Use:     "add <phone> [name]",
	Short:   "Append a user to the roster",
	GroupID: "roster",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, _ := cmd.Flags().GetString("region")
		var name string
		if len(args) == 2 {
			name = args[1]
		}

		view := newView()
		entry, err := view.Add(context.Background(), name, args[0], region)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s at position %d.\n", entry.DisplayName(), entry.Order+1)
		return view.Render(cmd.OutOrStdout())
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <user>",
	Short:   "Change a user's name or phone number",
	GroupID: "roster",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		found, err := lookup(ctx, args[0])
		if err != nil {
			return err
		}
		entry := found[0]

		name := entry.Name
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		phoneNumber := entry.PhoneNumber
		if cmd.Flags().Changed("phone") {
			phoneNumber, _ = cmd.Flags().GetString("phone")
		}
		region, _ := cmd.Flags().GetString("region")

		view := newView()
		if err := view.Edit(ctx, entry.ID, name, phoneNumber, region); err != nil {
			return err
		}
		return view.Render(cmd.OutOrStdout())
	},
}

var statusCmd = &cobra.Command{
	Use:     "status <user> <status>",
	Short:   "Set a user's availability (available, in_call)",
	GroupID: "roster",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		found, err := lookup(ctx, args[0])
		if err != nil {
			return err
		}
		if err := rosterClient.SetStatus(ctx, found[0].ID, model.Status(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s.\n", found[0].DisplayName(), args[1])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <user>",
	Short:   "Remove a user from the roster",
	GroupID: "roster",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		found, err := lookup(ctx, args[0])
		if err != nil {
			return err
		}

		view := newView()
		if err := view.Delete(ctx, found[0].ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", found[0].DisplayName())
		return view.Render(cmd.OutOrStdout())
	},
}

var moveCmd = &cobra.Command{
	Use:     "move <user> <target>",
	Short:   "Move a user into the position held by target",
	GroupID: "roster",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		found, err := lookup(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		view := newView()
		if err := view.Move(ctx, found[0].ID, found[1].ID); err != nil {
			return err
		}
		return view.Render(cmd.OutOrStdout())
	},
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow roster changes live",
	GroupID: "roster",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := cmd.OutOrStdout()
		mirror := client.NewMirror()
		view := client.NewView(rosterClient, mirror)

		return rosterClient.Watch(ctx, func(snap client.Snapshot) {
			if snap.Err != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %s\n", snap.Err)
				return
			}
			mirror.Apply(ordering.Sort(snap.Entries))
			fmt.Fprintf(w, "\n%s\n", time.Now().Format(time.TimeOnly))
			if err := view.Render(w); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		})
	},
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Archive the roster to object storage",
	GroupID: "roster",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := rosterClient.Export(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", key)
		return nil
	},
}

func init() {
	addCmd.Flags().String("region", "", "region for numbers without a country code, e.g. GB")
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().String("phone", "", "new phone number")
	editCmd.Flags().String("region", "", "region for numbers without a country code")
}
