package command

// book.go handles the catalog commands: list with filtering/sorting/
// recommendations, detail view, and the add/edit/delete round-trips.

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MatthewBrawders/Tome/internal/catalog"
	"github.com/MatthewBrawders/Tome/internal/models"
	"github.com/MatthewBrawders/Tome/internal/thread"
	"github.com/MatthewBrawders/Tome/internal/view"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book catalog commands",
	Long:  `Browse the book-review catalog and manage your own entries.`,
}

var listBooksCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, with optional filters and sorting",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, sortKey, recommend, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		d, err := buildDeps()
		if err != nil {
			return err
		}
		store := catalog.NewStore(d.client, d.log)
		if err := store.LoadAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load books: %w", err)
		}

		visible := view.Compute(store.Books(), criteria, sortKey, recommend)
		if len(visible) == 0 {
			fmt.Println("No books found.")
			return nil
		}
		for _, b := range visible {
			printBookLine(b)
		}
		fmt.Printf("\n%d book(s)\n", len(visible))
		return nil
	},
}

var getBookCmd = &cobra.Command{
	Use:   "get [book-id]",
	Short: "Show one book with its comment thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		loader := thread.NewLoader(d.client, d.sessions, d.log)
		book, comments, err := loader.Select(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printBookDetail(*book)
		printComments(comments)
		return nil
	},
}

var addBookCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book review",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")
		genre, _ := cmd.Flags().GetString("genre")
		year, _ := cmd.Flags().GetInt("year")
		image, _ := cmd.Flags().GetString("image")
		review, _ := cmd.Flags().GetString("review")

		draft := models.BookDraft{
			Title:    models.OptString(title),
			Author:   models.OptString(author),
			Genre:    models.OptString(genre),
			Year:     models.OptInt(year),
			Image:    models.OptString(image),
			Review:   models.OptString(review),
			Username: models.OptString(d.sessions.Current()),
		}

		created, err := d.client.CreateBook(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Println("✓ Book created!")
		printBookDetail(created)
		return nil
	},
}

var editBookCmd = &cobra.Command{
	Use:   "edit [book-id]",
	Short: "Edit a book review",
	Long: `Edit a book review. Fields not passed keep their current value; pass an
empty string ("") or --year 0 to clear a field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		// Start from the stored record so unset flags keep their value,
		// like the edit form pre-filling from the detail pane.
		current, err := d.client.GetBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		strField := func(name, existing string) *string {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				return models.OptString(v)
			}
			return models.OptString(existing)
		}
		yearField := func() *int {
			if cmd.Flags().Changed("year") {
				v, _ := cmd.Flags().GetInt("year")
				return models.OptInt(v)
			}
			return current.Year
		}

		owner := current.Username
		if owner == "" {
			owner = d.sessions.Current()
		}
		draft := models.BookDraft{
			Title:    strField("title", current.Title),
			Author:   strField("author", current.Author),
			Genre:    strField("genre", current.Genre),
			Year:     yearField(),
			Image:    strField("image", current.Image),
			Review:   strField("review", current.Review),
			Username: models.OptString(owner),
		}

		updated, err := d.client.UpdateBook(cmd.Context(), args[0], draft)
		if err != nil {
			return err
		}
		fmt.Println("✓ Book updated!")
		printBookDetail(updated)
		return nil
	},
}

var deleteBookCmd = &cobra.Command{
	Use:   "delete [book-id]",
	Short: "Delete a book review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(fmt.Sprintf("Delete book %s? This action can't be undone.", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}

		d, err := buildDeps()
		if err != nil {
			return err
		}
		if err := d.client.DeleteBook(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Book %s deleted.\n", args[0])
		return nil
	},
}

// criteriaFromFlags reads the shared filter flag set of `book list`.
func criteriaFromFlags(cmd *cobra.Command) (view.Criteria, view.SortKey, bool, error) {
	var criteria view.Criteria
	criteria.Query, _ = cmd.Flags().GetString("query")
	criteria.Author, _ = cmd.Flags().GetString("author")
	criteria.Genre, _ = cmd.Flags().GetString("genre")
	criteria.Owner, _ = cmd.Flags().GetString("owner")

	if cmd.Flags().Changed("year-min") {
		v, _ := cmd.Flags().GetInt("year-min")
		criteria.YearMin = &v
	}
	if cmd.Flags().Changed("year-max") {
		v, _ := cmd.Flags().GetInt("year-max")
		criteria.YearMax = &v
	}

	coverRaw, _ := cmd.Flags().GetString("cover")
	cover, err := view.ParseCoverFilter(coverRaw)
	if err != nil {
		return criteria, view.SortNone, false, err
	}
	criteria.Cover = cover

	sortRaw, _ := cmd.Flags().GetString("sort")
	sortKey, err := view.ParseSortKey(sortRaw)
	if err != nil {
		return criteria, view.SortNone, false, err
	}

	recommend, _ := cmd.Flags().GetBool("recommend")
	return criteria, sortKey, recommend, nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func printBookLine(b models.Book) {
	line := b.Title
	if b.Author != "" {
		line += " — " + b.Author
	}
	if b.HasYear() {
		line += fmt.Sprintf(" (%d)", *b.Year)
	}
	fmt.Printf("%-12s %s", b.Key(), line)
	if b.Username != "" {
		fmt.Printf("  [by %s]", b.Username)
	}
	if b.Views > 0 {
		fmt.Printf("  (%d views)", b.Views)
	}
	fmt.Println()
}

func printBookDetail(b models.Book) {
	show := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}
	fmt.Printf("Title:  %s\n", show(b.Title))
	fmt.Printf("Author: %s\n", show(b.Author))
	fmt.Printf("Genre:  %s\n", show(b.Genre))
	if b.HasYear() {
		fmt.Printf("Year:   %d\n", *b.Year)
	} else {
		fmt.Println("Year:   —")
	}
	fmt.Printf("Cover:  %s\n", show(b.Image))
	fmt.Printf("Review: %s\n", show(b.Review))
	fmt.Printf("Owner:  %s\n", show(b.Username))
	fmt.Printf("ID:     %s\n", show(b.Key()))
	fmt.Printf("Views:  %d\n", b.Views)
}

func printComments(comments []models.Comment) {
	fmt.Println("\nComments:")
	if len(comments) == 0 {
		fmt.Println("  No comments yet.")
		return
	}
	for _, c := range comments {
		fmt.Printf("  @%s  %s\n", c.Username, c.DateAndTime)
		fmt.Printf("    %s\n", c.Comment)
	}
}

func init() {
	bookCmd.AddCommand(listBooksCmd)
	bookCmd.AddCommand(getBookCmd)
	bookCmd.AddCommand(addBookCmd)
	bookCmd.AddCommand(editBookCmd)
	bookCmd.AddCommand(deleteBookCmd)

	listBooksCmd.Flags().StringP("query", "q", "", "free-text search over title, author, review and owner")
	listBooksCmd.Flags().String("author", "", "author substring filter")
	listBooksCmd.Flags().String("genre", "", "genre substring filter")
	listBooksCmd.Flags().String("owner", "", "owner username substring filter")
	listBooksCmd.Flags().Int("year-min", 0, "minimum publication year")
	listBooksCmd.Flags().Int("year-max", 0, "maximum publication year")
	listBooksCmd.Flags().String("cover", "any", "cover presence: any, yes or no")
	listBooksCmd.Flags().String("sort", "", "sort key: title-asc, title-desc, year-asc or year-desc")
	listBooksCmd.Flags().Bool("recommend", false, "rank by most views (overrides --sort)")

	for _, c := range []*cobra.Command{addBookCmd, editBookCmd} {
		c.Flags().String("title", "", "book title")
		c.Flags().String("author", "", "book author")
		c.Flags().String("genre", "", "book genre")
		c.Flags().Int("year", 0, "publication year")
		c.Flags().String("image", "", "cover image URL")
		c.Flags().String("review", "", "review text")
	}
	addBookCmd.MarkFlagRequired("title")

	deleteBookCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(bookCmd)
}
