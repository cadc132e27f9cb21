package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/WaelFer/BooksApp/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(10)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderBookTable(books []*model.Book) string {
	t := newTable("ID", "Title", "Author", "Year", "Pages", "Price")
	for _, b := range books {
		t.Row(strconv.Itoa(b.ID), b.Title, b.Author, intOrEmpty(b.PublishedDate), intOrEmpty(b.Pages), priceOrEmpty(b.Prix))
	}
	return t.Render()
}

func renderCartTable(items []*model.CartItem) string {
	t := newTable("Line", "Book", "Quantity")
	for _, item := range items {
		t.Row(strconv.Itoa(item.ID), strconv.Itoa(item.BookID), intOrEmpty(item.Quantite))
	}
	return t.Render()
}

// renderBook is the detail view. Unknown values are left blank.
func renderBook(b *model.Book) string {
	image := b.Image + " " + mutedStyle.Render("(local)")
	if b.HasRemoteImage() {
		image = b.Image + " " + mutedStyle.Render("(remote)")
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", b.ID, b.Title)))
	sb.WriteString("\n")
	for _, line := range [][2]string{
		{"Author", b.Author},
		{"Country", stringOrEmpty(b.Country)},
		{"Language", stringOrEmpty(b.Language)},
		{"Year", intOrEmpty(b.PublishedDate)},
		{"Pages", intOrEmpty(b.Pages)},
		{"Price", priceOrEmpty(b.Prix)},
		{"Link", stringOrEmpty(b.Link)},
		{"Image", image},
	} {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(line[0]), line[1]))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderMissingBook(id int) string {
	return mutedStyle.Render(fmt.Sprintf("No book with id %d.", id))
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func priceOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "€"
}
