package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hankerbiao/Registration-System/internal/console/query"
)

func newAthletesBrowseCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through athletes interactively",
		Long: `Show a page of athletes and wait for a command:

  n, next      next page
  p, prev      previous page
  <number>     jump to a page
  r, refresh   fetch the current page again
  q, quit      leave

Pages already seen are served from the session cache until refreshed.
Press Ctrl+C to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return browse(ctx, cmd.InOrStdin(), page)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to start on")

	return cmd
}

// pagerCommand is one parsed line of pager input
type pagerCommand struct {
	quit    bool
	refresh bool
	page    int
}

// parsePagerCommand resolves line against the current position. ok is
// false for input the pager does not understand.
func parsePagerCommand(line string, page, pages int) (cmd pagerCommand, ok bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "q", "quit", "exit":
		return pagerCommand{quit: true}, true
	case "r", "refresh":
		return pagerCommand{refresh: true, page: page}, true
	case "n", "next", "":
		if page >= pages {
			return pagerCommand{page: page}, true
		}
		return pagerCommand{page: page + 1}, true
	case "p", "prev":
		return pagerCommand{page: max(page-1, 1)}, true
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 {
		return pagerCommand{}, false
	}
	return pagerCommand{page: min(n, max(pages, 1))}, true
}

func browse(ctx context.Context, in io.Reader, page int) error {
	loader := athleteLoader()
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		view := loader.Load(ctx, page)
		if view.Err == nil && view.Page > max(view.Pages, 1) {
			// past the end, e.g. after deletions elsewhere
			page = max(view.Pages, 1)
			continue
		}
		if view.Err == nil || len(view.Items) > 0 {
			out.Print(view)
		}
		page = view.Page
		_, _ = fmt.Fprint(out.w, "[n]ext [p]rev [r]efresh [q]uit> ")

		var cmd pagerCommand
		for {
			var line string
			var open bool
			select {
			case <-ctx.Done():
				_, _ = fmt.Fprintln(out.w)
				return nil
			case line, open = <-lines:
			}
			if !open {
				_, _ = fmt.Fprintln(out.w)
				return nil
			}
			var ok bool
			if cmd, ok = parsePagerCommand(line, page, view.Pages); ok {
				break
			}
			_, _ = fmt.Fprintf(out.w, "unknown command %q> ", line)
		}

		if cmd.quit {
			return nil
		}
		if cmd.refresh {
			sess.Cache().Invalidate(query.AthletesKey)
		}
		page = cmd.page
	}
}
