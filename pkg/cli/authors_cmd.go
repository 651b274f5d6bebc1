package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type apiAuthor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newAuthorsCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Browse and manage authors",
	}

	cmd.AddCommand(newAuthorsListCmd(client))
	cmd.AddCommand(newAuthorsGetCmd(client))
	cmd.AddCommand(newAuthorsAddCmd(client))

	return cmd
}

func newAuthorsListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var authors []apiAuthor
			if err := client.getJSON("/authors", nil, &authors); err != nil {
				return err
			}
			if getQuiet(cmd) {
				for _, a := range authors {
					_, _ = fmt.Fprintln(os.Stdout, a.ID)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, authors)
			}
			rows := make([][]string, 0, len(authors))
			for _, a := range authors {
				rows = append(rows, []string{strconv.FormatInt(a.ID, 10), a.Name})
			}
			printTable(os.Stdout, []string{"id", "name"}, rows)
			return nil
		},
	}
}

func newAuthorsGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var author apiAuthor
			if err := client.getJSON("/authors/"+args[0], nil, &author); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, author)
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s (id %d)\n", author.Name, author.ID)
			return nil
		},
	}
}

func newAuthorsAddCmd(client *Client) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an author (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var author apiAuthor
			if err := client.postJSON("/authors", map[string]string{"name": name}, &author); err != nil {
				return err
			}
			if getQuiet(cmd) {
				_, _ = fmt.Fprintln(os.Stdout, author.ID)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, author)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Added author %q (id %d)\n", author.Name, author.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Author name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
