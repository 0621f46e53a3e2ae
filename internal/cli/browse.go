package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"serveon_backend/internal/favorites"
	"serveon_backend/internal/grid"
	"serveon_backend/internal/records/entity"
	"serveon_backend/platform/debounce"

	"github.com/spf13/cobra"
)

const browseHelp = `commands:
  <text>                   search (applied immediately)
  filter field:op:value    add a condition
  unfilter <n>             remove condition n (1-based)
  clear                    remove every condition
  view table|card          switch the view
  star <id>                toggle a favorite
  select <id>              pick a record
  export                   print the current CSV
  quit`

// NewBrowseCmd opens an entity type's list in a line-oriented browser.
func NewBrowseCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <entity>",
		Short: "Search, filter and star an entity type's records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, ok := entity.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q (known: %s)", args[0], strings.Join(entity.Types(), ", "))
			}

			repo, closeRepo, err := env.Repository(ctx)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer closeRepo()
			kv, closeKV := env.KV(ctx)
			defer closeKV()

			records, err := repo.List(ctx, e.Type)
			if err != nil {
				return fmt.Errorf("list %s: %w", e.Type, err)
			}

			out := cmd.OutOrStdout()
			browser := grid.NewBrowser(e.Definition(), favorites.NewStore(kv.Scope(Scope)), debounce.New(env.search().GetSearchDebounce()), grid.Callbacks{
				OnSelect: func(id string) { fmt.Fprintf(out, "selected %s\n", id) },
			})
			browser.Open(ctx)
			browser.SetRecords(records, false)
			defer browser.Close()

			fmt.Fprintf(out, "%s (%d records)\n", e.Label, len(records))
			return runBrowser(ctx, cmd.InOrStdin(), out, browser)
		},
	}
}

func runBrowser(ctx context.Context, in io.Reader, out io.Writer, b *grid.Browser[grid.Map]) error {
	printSnapshot(out, b.Snapshot())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "quit":
			return nil
		case "help":
			fmt.Fprintln(out, browseHelp)
			continue
		case "filter":
			c, err := grid.ParseCondition(arg)
			if err == nil {
				err = b.AddCondition(c)
			}
			if err != nil {
				fmt.Fprintf(out, "invalid condition: %v\n", err)
				continue
			}
		case "unfilter":
			n, err := strconv.Atoi(arg)
			if err != nil || !b.RemoveCondition(n-1) {
				fmt.Fprintln(out, "no such condition")
				continue
			}
		case "clear":
			b.ClearConditions()
		case "view":
			b.SetView(grid.ParseView(arg))
		case "star":
			fmt.Fprintf(out, "favorite %s: %t\n", arg, b.ToggleFavorite(ctx, arg))
		case "select":
			if !b.Select(arg) {
				fmt.Fprintln(out, "no such record")
			}
			continue
		case "export":
			if _, err := b.Export(out); err != nil {
				return err
			}
			continue
		default:
			b.Type(line)
			b.ApplyNow()
		}
		printSnapshot(out, b.Snapshot())
	}
	return scanner.Err()
}

func printSnapshot(w io.Writer, snap grid.Snapshot[grid.Map]) {
	for i, c := range snap.Query.Conditions {
		fmt.Fprintf(w, "  filter %d: %s\n", i+1, c)
	}
	switch snap.State {
	case grid.StateLoading:
		fmt.Fprintln(w, "loading...")
		return
	case grid.StateEmpty:
		fmt.Fprintln(w, "no records found")
		return
	case grid.StateClosed:
		return
	}

	for _, row := range snap.Rows {
		values := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			values[i] = c.Value
		}
		fmt.Fprintf(w, "%s %-6s %s\n", star(row.Favorite), row.ID, strings.Join(values, " | "))
	}
	for _, card := range snap.Cards {
		fmt.Fprintf(w, "%s %-6s %s\n", star(card.Favorite), card.ID, card.Title)
		for _, s := range card.Subtitles {
			if s != "" {
				fmt.Fprintf(w, "         %s\n", s)
			}
		}
		for _, d := range card.Details {
			fmt.Fprintf(w, "         %s: %s\n", d.Header, d.Value)
		}
	}
}

func star(favorite bool) string {
	if favorite {
		return "*"
	}
	return " "
}
