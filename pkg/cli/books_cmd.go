package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type apiBook struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	AuthorID        int64      `json:"author_id"`
	AuthorName      string     `json:"author_name"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	CopiesAvailable int64      `json:"copies_available"`
	CreatedAt       time.Time  `json:"created_at"`
}

type apiCopy struct {
	ID      int64  `json:"id"`
	BookID  int64  `json:"book_id"`
	Barcode string `json:"barcode"`
}

func newBooksCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the catalog",
	}

	cmd.AddCommand(newBooksListCmd(client))
	cmd.AddCommand(newBooksGetCmd(client))
	cmd.AddCommand(newBooksAddCmd(client))
	cmd.AddCommand(newBooksAddCopiesCmd(client))

	return cmd
}

func newBooksListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books with availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var books []apiBook
			if err := client.getJSON("/books", nil, &books); err != nil {
				return err
			}
			if getQuiet(cmd) {
				for _, b := range books {
					_, _ = fmt.Fprintln(os.Stdout, b.ID)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, books)
			}
			rows := make([][]string, 0, len(books))
			for _, b := range books {
				rows = append(rows, []string{
					strconv.FormatInt(b.ID, 10),
					b.Title,
					b.AuthorName,
					strconv.FormatInt(b.CopiesAvailable, 10),
					formatDate(b.PublishedDate),
				})
			}
			printTable(os.Stdout, []string{"id", "title", "author", "available", "published"}, rows)
			return nil
		},
	}
}

func newBooksGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var book apiBook
			if err := client.getJSON("/books/"+args[0], nil, &book); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, book)
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s by %s\n", book.Title, book.AuthorName)
			_, _ = fmt.Fprintf(os.Stdout, "  id:        %d\n", book.ID)
			_, _ = fmt.Fprintf(os.Stdout, "  available: %d\n", book.CopiesAvailable)
			if book.PublishedDate != nil {
				_, _ = fmt.Fprintf(os.Stdout, "  published: %s\n", formatDate(book.PublishedDate))
			}
			return nil
		},
	}
}

func newBooksAddCmd(client *Client) *cobra.Command {
	var (
		title     string
		authorID  int64
		published string
		copies    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]interface{}{
				"title":     title,
				"author_id": authorID,
			}
			if published != "" {
				t, err := time.Parse("2006-01-02", published)
				if err != nil {
					return fmt.Errorf("invalid --published %q: use YYYY-MM-DD", published)
				}
				body["published_date"] = t
			}
			if copies > 0 {
				body["copies"] = copies
			}

			var book apiBook
			if err := client.postJSON("/books", body, &book); err != nil {
				return err
			}
			if getQuiet(cmd) {
				_, _ = fmt.Fprintln(os.Stdout, book.ID)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, book)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Added %q (id %d) with %d copies\n", book.Title, book.ID, book.CopiesAvailable)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().Int64Var(&authorID, "author-id", 0, "Author ID")
	cmd.Flags().StringVar(&published, "published", "", "Publication date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&copies, "copies", 0, "Copies to shelve immediately")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author-id")

	return cmd
}

func newBooksAddCopiesCmd(client *Client) *cobra.Command {
	var copies int

	cmd := &cobra.Command{
		Use:   "add-copies <id>",
		Short: "Shelve additional copies of a book (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var created []apiCopy
			if err := client.postJSON("/books/"+args[0]+"/copies", map[string]int{"copies": copies}, &created); err != nil {
				return err
			}
			if getQuiet(cmd) {
				for _, c := range created {
					_, _ = fmt.Fprintln(os.Stdout, c.ID)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, created)
			}
			rows := make([][]string, 0, len(created))
			for _, c := range created {
				rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Barcode})
			}
			printTable(os.Stdout, []string{"id", "barcode"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&copies, "copies", 1, "Number of copies to shelve")

	return cmd
}
