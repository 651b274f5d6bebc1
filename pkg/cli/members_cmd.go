package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type apiMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newMembersCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Browse and manage library members",
	}

	cmd.AddCommand(newMembersListCmd(client))
	cmd.AddCommand(newMembersAddCmd(client))

	return cmd
}

func newMembersListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var members []apiMember
			if err := client.getJSON("/members", nil, &members); err != nil {
				return err
			}
			if getQuiet(cmd) {
				for _, m := range members {
					_, _ = fmt.Fprintln(os.Stdout, m.ID)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, members)
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.Name, m.Email})
			}
			printTable(os.Stdout, []string{"id", "name", "email"}, rows)
			return nil
		},
	}
}

func newMembersAddCmd(client *Client) *cobra.Command {
	var (
		name  string
		email string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a member (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var member apiMember
			body := map[string]string{"name": name, "email": email}
			if err := client.postJSON("/members", body, &member); err != nil {
				return err
			}
			if getQuiet(cmd) {
				_, _ = fmt.Fprintln(os.Stdout, member.ID)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, member)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Added member %q (id %d)\n", member.Name, member.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Member name")
	cmd.Flags().StringVar(&email, "email", "", "Member email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
