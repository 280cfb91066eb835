package command

// comment.go handles the comment thread commands.

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MatthewBrawders/Tome/internal/thread"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  `Read and post comments on book reviews.`,
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [book-id]",
	Short: "List the comment thread for a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}
		comments, err := d.client.ListComments(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printComments(comments)
		return nil
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "post [book-id] [text]",
	Short: "Post a comment on a book",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")

		d, err := buildDeps()
		if err != nil {
			return err
		}
		loader := thread.NewLoader(d.client, d.sessions, d.log)
		if _, _, err := loader.Select(cmd.Context(), args[0]); err != nil {
			return err
		}
		created, err := loader.PostComment(cmd.Context(), text)
		if err != nil {
			return err
		}
		fmt.Println("✓ Comment posted!")
		fmt.Printf("@%s  %s\n", created.Username, created.DateAndTime)
		fmt.Printf("  %s\n", created.Comment)
		return nil
	},
}

func init() {
	commentCmd.AddCommand(listCommentsCmd)
	commentCmd.AddCommand(postCommentCmd)
	rootCmd.AddCommand(commentCmd)
}
