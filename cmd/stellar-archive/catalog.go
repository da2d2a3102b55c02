package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/iamvkosarev/stellar-archive/internal/catalog"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/spf13/cobra"
)

var searchCategory string

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	originalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the seed catalog",
	Long:  `Search the seed catalog by title or author, optionally within one category.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selector, ok := model.ParseCategory(searchCategory)
		if !ok {
			return fmt.Errorf("unknown category %q, see \"stellar-archive categories\"", searchCategory)
		}
		var term string
		if len(args) > 0 {
			term = args[0]
		}
		store := catalog.NewStore(model.StoreState{Books: catalog.SeedBooks()})
		printBooks(cmd.OutOrStdout(), store.Filter(term, selector))
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, category := range model.Categories {
			fmt.Fprintln(out, category)
		}
	},
}

func printBooks(out io.Writer, books []model.Book) {
	if len(books) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No records match"))
		return
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d volume(s)", len(books))))
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(books)+1)
	rows = append(rows, []string{"ID", "Title", "Author", "Category", "Price"})
	for _, book := range books {
		rows = append(rows, []string{book.ID, book.Title, book.Author, string(book.Category), model.FormatPrice(book.Price)})
	}
	lines := alignRows(rows)

	// Styles wrap whole aligned lines so escape codes never reach the column widths.
	fmt.Fprintln(out, titleStyle.Render(lines[0]))
	fmt.Fprintln(out, strings.Repeat("─", utf8.RuneCountInString(lines[0])))
	for i, book := range books {
		line := lines[i+1]
		if book.IsCreatorOriginal {
			line = originalStyle.Render(line)
		}
		fmt.Fprintln(out, line)
	}
}

func alignRows(rows [][]string) []string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", string(model.CategoryAll), "Category to search in")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(categoriesCmd)
}
