package ui

import (
	"fmt"
	"time"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"shelf-demo/internal/domain"
)

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f6f4; color: #1f2430; }
main { max-width: 920px; margin: 0 auto; padding: 2rem 1rem; }
h1 { margin: 0 0 0.25rem; }
.muted { color: #6b7080; margin-top: 0; }
.card { background: #fff; border: 1px solid #e3e3df; border-radius: 8px; padding: 1rem 1.25rem; margin-top: 1.5rem; }
.card h2 { margin: 0 0 0.75rem; font-size: 1.1rem; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #eee; }
th { color: #6b7080; font-weight: 600; font-size: 0.85rem; text-transform: uppercase; }
.none { color: #b04a4a; }
`

func booksPage(books []domain.BookWithAvailability, loans []domain.Loan) gomponents.Node {
	bookRows := make([]gomponents.Node, 0, len(books))
	for i := range books {
		b := books[i]
		avail := html.Td(gomponents.Text(fmt.Sprintf("%d", b.CopiesAvailable)))
		if b.CopiesAvailable == 0 {
			avail = html.Td(html.Class("none"), gomponents.Text("none"))
		}
		bookRows = append(bookRows, html.Tr(
			html.Td(gomponents.Text(b.Title)),
			html.Td(gomponents.Text(b.AuthorName)),
			html.Td(gomponents.Text(formatDate(b.PublishedDate))),
			avail,
		))
	}

	loanRows := make([]gomponents.Node, 0, len(loans))
	for i := range loans {
		l := loans[i]
		loanRows = append(loanRows, html.Tr(
			html.Td(gomponents.Text(l.BookTitle)),
			html.Td(gomponents.Text(l.Barcode)),
			html.Td(gomponents.Text(l.MemberName)),
			html.Td(gomponents.Text(l.DueAt.Format("2006-01-02"))),
		))
	}

	catalog := gomponents.Node(html.P(html.Class("muted"), gomponents.Text("The catalog is empty.")))
	if len(bookRows) > 0 {
		catalog = html.Table(
			html.THead(html.Tr(
				html.Th(gomponents.Text("Title")),
				html.Th(gomponents.Text("Author")),
				html.Th(gomponents.Text("Published")),
				html.Th(gomponents.Text("Available")),
			)),
			html.TBody(gomponents.Group(bookRows)),
		)
	}

	onLoan := gomponents.Node(html.P(html.Class("muted"), gomponents.Text("Nothing is on loan.")))
	if len(loanRows) > 0 {
		onLoan = html.Table(
			html.THead(html.Tr(
				html.Th(gomponents.Text("Title")),
				html.Th(gomponents.Text("Barcode")),
				html.Th(gomponents.Text("Borrowed by")),
				html.Th(gomponents.Text("Due")),
			)),
			html.TBody(gomponents.Group(loanRows)),
		)
	}

	return page("Shelf",
		html.H1(gomponents.Text("Shelf")),
		html.P(html.Class("muted"), gomponents.Text("A small library catalog.")),
		html.Div(html.Class("card"), html.H2(gomponents.Text("Books")), catalog),
		html.Div(html.Class("card"), html.H2(gomponents.Text("On loan")), onLoan),
	)
}

func errorPage(title, message string) gomponents.Node {
	return page(title,
		html.H1(gomponents.Text(title)),
		html.P(gomponents.Text(message)),
	)
}

func page(title string, body ...gomponents.Node) gomponents.Node {
	return html.HTML(
		html.Lang("en"),
		html.Head(
			html.Meta(html.Charset("utf-8")),
			html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
			html.TitleEl(gomponents.Text(title)),
			html.StyleEl(gomponents.Raw(stylesheet)),
		),
		html.Body(html.Main(gomponents.Group(body))),
	)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
