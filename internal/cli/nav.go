package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"serveon_backend/internal/navsearch/engine"
	"serveon_backend/platform/debounce"

	"github.com/spf13/cobra"
)

var navKeys = map[string]engine.Key{
	":down":  engine.KeyDown,
	":up":    engine.KeyUp,
	":enter": engine.KeyEnter,
	":esc":   engine.KeyEscape,
	":k":     engine.KeyShortcut,
}

// NewNavCmd ranks the navigation catalog against a query. With
// --interactive it reads typed text and key names from stdin and drives a
// full search box session.
func NewNavCmd(env *Env) *cobra.Command {
	var (
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "nav [query]",
		Short: "Search the navigation catalog",
		Example: `  serveonctl nav client
  serveonctl nav -i   # then type text, :down, :up, :enter, :esc, :pick /path, :quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kv, closeKV := env.KV(ctx)
			defer closeKV()
			scoped := kv.Scope(Scope)

			tuning := env.search()
			history := engine.NewHistory(scoped, tuning.GetNavHistoryLimit())
			visits := engine.NewPopularity(scoped)

			if interactive {
				return runNavSession(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), history, visits, limit, tuning.GetNavBlurGrace())
			}

			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a query is required unless --interactive is set")
			}
			printResults(cmd.OutOrStdout(), engine.Search(engine.DefaultCatalog(), query, visits.Counts(ctx), limit), engine.NoSelection)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", env.search().GetNavResultLimit(), "Maximum number of results")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read a search session from stdin")

	return cmd
}

func runNavSession(ctx context.Context, in io.Reader, out io.Writer, history *engine.History, visits *engine.Popularity, limit int, blurGrace time.Duration) error {
	navigate := func(item engine.Item) {
		fmt.Fprintf(out, "-> %s %s\n", item.Title, item.Path)
	}
	session := engine.NewSession(engine.DefaultCatalog(), history, visits, debounce.New(blurGrace), limit, navigate)
	session.Focus(ctx)
	printView(out, session.View(ctx))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == ":quit":
			return nil
		case strings.HasPrefix(line, ":pick "):
			if _, ok := session.Pick(ctx, strings.TrimSpace(strings.TrimPrefix(line, ":pick "))); !ok {
				fmt.Fprintln(out, "no such result")
			}
		case navKeys[line] != "":
			session.Press(ctx, navKeys[line])
		case strings.HasPrefix(line, ":"):
			fmt.Fprintf(out, "unknown command %s\n", line)
			continue
		default:
			session.Type(ctx, line)
		}
		printView(out, session.View(ctx))
	}
	return scanner.Err()
}

func printView(w io.Writer, v engine.View) {
	fmt.Fprintf(w, "[%s] %q\n", v.State, v.Query)
	if len(v.History) > 0 {
		fmt.Fprintf(w, "  recent: %s\n", strings.Join(v.History, ", "))
	}
	for _, s := range v.Suggestions {
		if s.Visits > 0 {
			fmt.Fprintf(w, "  popular: %s (%d)\n", s.Item.Title, s.Visits)
		}
	}
	if v.State == engine.StateFocusedQuery && len(v.Results) == 0 {
		fmt.Fprintln(w, "  no destinations found")
	}
	printResults(w, v.Results, v.Selected)
}

func printResults(w io.Writer, results []engine.Result, selected int) {
	for i, r := range results {
		marker := " "
		if i == selected {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %6.1f  %-24s %s\n", marker, r.Score, r.Item.Title, r.Item.Path)
	}
}
