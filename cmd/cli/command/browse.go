package command

// browse.go is the interactive shell: a long-lived session over the catalog
// store and the detail/comment loader, with the same filter, sort and
// recommend controls as `book list` and the same select-toggle behavior as
// the detail pane.

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MatthewBrawders/Tome/internal/catalog"
	"github.com/MatthewBrawders/Tome/internal/models"
	"github.com/MatthewBrawders/Tome/internal/thread"
	"github.com/MatthewBrawders/Tome/internal/view"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		b := &browser{
			deps:   d,
			store:  catalog.NewStore(d.client, d.log),
			loader: thread.NewLoader(d.client, d.sessions, d.log),
		}
		return b.run(cmd.Context())
	},
}

type browser struct {
	deps   *deps
	store  *catalog.Store
	loader *thread.Loader

	criteria  view.Criteria
	sortKey   view.SortKey
	recommend bool
}

func (b *browser) run(ctx context.Context) error {
	fmt.Println("Tome — type 'help' for commands, 'quit' to leave.")
	if user := b.deps.sessions.Current(); user != "" {
		fmt.Printf("Logged in as %s\n", user)
	}
	if err := b.store.LoadAll(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		b.list()
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("tome> ")
		if !scanner.Scan() {
			b.store.Invalidate()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmd == "quit" || cmd == "exit" {
			b.store.Invalidate()
			return nil
		}
		if err := b.dispatch(ctx, cmd, rest); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func (b *browser) dispatch(ctx context.Context, cmd, rest string) error {
	switch cmd {
	case "help":
		b.help()
	case "list":
		b.list()
	case "refresh":
		if err := b.store.LoadAll(ctx); err != nil {
			return err
		}
		b.list()
	case "search":
		b.criteria.Query = rest
		b.list()
	case "author":
		b.criteria.Author = rest
		b.list()
	case "genre":
		b.criteria.Genre = rest
		b.list()
	case "owner":
		b.criteria.Owner = rest
		b.list()
	case "year":
		if err := b.setYears(rest); err != nil {
			return err
		}
		b.list()
	case "cover":
		cover, err := view.ParseCoverFilter(rest)
		if err != nil {
			return err
		}
		b.criteria.Cover = cover
		b.list()
	case "sort":
		key, err := view.ParseSortKey(rest)
		if err != nil {
			return err
		}
		b.sortKey = key
		b.list()
	case "recommend":
		b.recommend = rest == "on"
		b.list()
	case "reset":
		b.criteria = view.Criteria{}
		b.sortKey = view.SortNone
		b.recommend = false
		b.list()
	case "add":
		return b.add(ctx, rest)
	case "select":
		return b.doSelect(ctx, rest)
	case "comment":
		return b.comment(ctx, rest)
	case "delete":
		return b.delete(ctx)
	default:
		fmt.Printf("Unknown command %q, try 'help'.\n", cmd)
	}
	return nil
}

func (b *browser) help() {
	fmt.Print(`Commands:
  list                     show the current view
  refresh                  re-fetch the catalog
  search TEXT              free-text filter (empty to clear)
  author|genre|owner TEXT  field filters (empty to clear)
  year MIN MAX             year range, '-' for an open bound
  cover any|yes|no         cover-presence filter
  sort KEY                 title-asc, title-desc, year-asc, year-desc (empty to clear)
  recommend on|off         rank by most views, overrides sort
  reset                    clear all filters and sorting
  add TITLE                add a book review with that title
  select ID                show a book (same ID again to close it)
  comment TEXT             comment on the selected book
  delete                   delete the selected book
  quit                     leave
`)
}

func (b *browser) setYears(rest string) error {
	fields := strings.Fields(rest)
	b.criteria.YearMin = nil
	b.criteria.YearMax = nil
	parse := func(s string) (*int, error) {
		if s == "" || s == "-" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", s)
		}
		return &n, nil
	}
	var err error
	if len(fields) > 0 {
		if b.criteria.YearMin, err = parse(fields[0]); err != nil {
			return err
		}
	}
	if len(fields) > 1 {
		if b.criteria.YearMax, err = parse(fields[1]); err != nil {
			return err
		}
	}
	return nil
}

func (b *browser) list() {
	visible := view.Compute(b.store.Books(), b.criteria, b.sortKey, b.recommend)
	if len(visible) == 0 {
		fmt.Println("No books found.")
		return
	}
	selected := b.loader.Selected()
	for _, bk := range visible {
		marker := " "
		if selected != "" && bk.Key() == selected {
			marker = "*"
		}
		fmt.Print(marker + " ")
		printBookLine(bk)
	}
}

func (b *browser) add(ctx context.Context, title string) error {
	if title == "" {
		return fmt.Errorf("usage: add TITLE")
	}
	created, err := b.deps.client.CreateBook(ctx, models.BookDraft{
		Title:    models.OptString(title),
		Username: models.OptString(b.deps.sessions.Current()),
	})
	if err != nil {
		return err
	}
	// Appended after the server confirms, never optimistically.
	b.store.ApplyCreated(created)
	fmt.Printf("✓ Book %s created.\n", created.Key())
	b.list()
	return nil
}

func (b *browser) doSelect(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: select ID")
	}
	book, comments, err := b.loader.Select(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		fmt.Println("Selection cleared.")
		return nil
	}
	printBookDetail(*book)
	printComments(comments)
	return nil
}

func (b *browser) comment(ctx context.Context, text string) error {
	created, err := b.loader.PostComment(ctx, text)
	if err != nil {
		return err
	}
	fmt.Printf("✓ @%s  %s\n  %s\n", created.Username, created.DateAndTime, created.Comment)
	return nil
}

func (b *browser) delete(ctx context.Context) error {
	id := b.loader.Selected()
	if id == "" {
		return fmt.Errorf("select a book first")
	}
	if !confirm(fmt.Sprintf("Delete book %s? This action can't be undone.", id)) {
		fmt.Println("Aborted.")
		return nil
	}
	if err := b.deps.client.DeleteBook(ctx, id); err != nil {
		return err
	}
	b.store.ApplyRemoved(id)
	// Close the pane; the selected book is gone.
	b.loader.Select(ctx, id)
	fmt.Printf("✓ Book %s deleted.\n", id)
	b.list()
	return nil
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
