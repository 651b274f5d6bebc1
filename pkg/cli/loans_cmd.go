package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type apiLoan struct {
	CopyID     int64     `json:"copy_id"`
	Barcode    string    `json:"barcode"`
	BookID     int64     `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	MemberID   int64     `json:"member_id"`
	MemberName string    `json:"member_name"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueAt      time.Time `json:"due_at"`
}

func newLoansCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Borrow, return, and list loans",
	}

	cmd.AddCommand(newLoansListCmd(client))
	cmd.AddCommand(newLoansOverdueCmd(client))
	cmd.AddCommand(newLoansBorrowCmd(client))
	cmd.AddCommand(newLoansReturnCmd(client))

	return cmd
}

func printLoans(cmd *cobra.Command, loans []apiLoan) error {
	if getQuiet(cmd) {
		for _, l := range loans {
			_, _ = fmt.Fprintln(os.Stdout, l.CopyID)
		}
		return nil
	}
	if getOutputFormat(cmd) == "json" {
		return printJSON(os.Stdout, loans)
	}
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			strconv.FormatInt(l.CopyID, 10),
			l.Barcode,
			l.BookTitle,
			l.MemberName,
			l.DueAt.Format("2006-01-02"),
		})
	}
	printTable(os.Stdout, []string{"copy", "barcode", "book", "member", "due"}, rows)
	return nil
}

func newLoansListCmd(client *Client) *cobra.Command {
	var memberID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			if cmd.Flags().Changed("member-id") {
				query.Set("member_id", strconv.FormatInt(memberID, 10))
			}
			var loans []apiLoan
			if err := client.getJSON("/loans", query, &loans); err != nil {
				return err
			}
			return printLoans(cmd, loans)
		},
	}

	cmd.Flags().Int64Var(&memberID, "member-id", 0, "Only loans held by this member")

	return cmd
}

func newLoansOverdueCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var loans []apiLoan
			if err := client.getJSON("/loans/overdue", nil, &loans); err != nil {
				return err
			}
			return printLoans(cmd, loans)
		},
	}
}

func newLoansBorrowCmd(client *Client) *cobra.Command {
	var (
		memberID int64
		bookID   int64
	)

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Borrow an available copy of a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]int64{
				"member_id": memberID,
				"book_id":   bookID,
			}
			var loan apiLoan
			if err := client.postJSON("/loans", body, &loan); err != nil {
				return err
			}
			if getQuiet(cmd) {
				_, _ = fmt.Fprintln(os.Stdout, loan.CopyID)
				return nil
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, loan)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Borrowed %q (copy %s) for %s, due %s\n",
				loan.BookTitle, loan.Barcode, loan.MemberName, loan.DueAt.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&memberID, "member-id", 0, "Borrowing member ID")
	cmd.Flags().Int64Var(&bookID, "book-id", 0, "Book ID to borrow")
	_ = cmd.MarkFlagRequired("member-id")
	_ = cmd.MarkFlagRequired("book-id")

	return cmd
}

func newLoansReturnCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "return <copy-id>",
		Short: "Return a borrowed copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]string
			if err := client.postJSON("/copies/"+args[0]+"/return", nil, &result); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, result)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Copy %s returned\n", args[0])
			return nil
		},
	}
}
