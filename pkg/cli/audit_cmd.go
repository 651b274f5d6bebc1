package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type apiAuditEntry struct {
	ID         int64     `json:"id"`
	Principal  string    `json:"principal"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	Status     string    `json:"status"`
	Detail     *string   `json:"detail,omitempty"`
	DurationMs *int64    `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAuditCmd(client *Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audit entries (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("limit") {
				query.Set("limit", strconv.Itoa(limit))
			}
			var entries []apiAuditEntry
			if err := client.getJSON("/audit", query, &entries); err != nil {
				return err
			}
			if getQuiet(cmd) {
				for _, e := range entries {
					_, _ = fmt.Fprintln(os.Stdout, e.ID)
				}
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := ""
				if e.Detail != nil {
					detail = *e.Detail
				}
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.Principal,
					e.Action,
					e.Entity,
					e.Status,
					detail,
				})
			}
			printTable(os.Stdout, []string{"id", "time", "principal", "action", "entity", "status", "detail"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to return (server default when omitted)")

	return cmd
}
