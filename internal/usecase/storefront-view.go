package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	"github.com/iamvkosarev/stellar-archive/internal/validation"
)

const (
	MessageCatalogEmpty = "No records match your search."
	MessageCartEmpty    = "The queue is empty"

	vaultLinkFormat = "https://stellar-archive.io/vault/%s"

	callbackCategoryPrefix = "cat:"
	callbackAddPrefix      = "add:"

	maxCategoryButtonsInRow = 3
	// Telegram measures message text in UTF-16 code units.
	maxMessageUnits         = 4096
	newVolumeHeadFields     = 4
)

func renderCatalog(books []model.Book, selector model.Category, term string) string {
	if len(books) == 0 {
		return MessageCatalogEmpty
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Archive: %s", selector))
	if term != "" {
		sb.WriteString(fmt.Sprintf(" / \"%s\"", term))
	}
	sb.WriteString(fmt.Sprintf(" (%d)\n", len(books)))
	for _, book := range books {
		sb.WriteString(
			fmt.Sprintf(
				"\n%s by %s\n%s | %s | /book %s\n",
				book.Title, book.Author, book.Category, model.FormatPrice(book.Price), book.ID,
			),
		)
	}
	return sb.String()
}

func renderBook(book model.Book) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\nby %s\n\n", book.Title, book.Author))
	if book.IsCreatorOriginal {
		sb.WriteString("Ownership Free original\n")
	}
	sb.WriteString(fmt.Sprintf("Category: %s\n", book.Category))
	sb.WriteString(fmt.Sprintf("Price: %s\n", model.FormatPrice(book.Price)))
	sb.WriteString(fmt.Sprintf("Rating: %.1f\n", book.Rating))
	sb.WriteString(fmt.Sprintf("Pages: %d, published %d\n", book.Pages, book.PublishedYear))
	if book.Description != "" {
		sb.WriteString("\n" + book.Description + "\n")
	}
	sb.WriteString("\n" + fmt.Sprintf(vaultLinkFormat, book.ID))
	return sb.String()
}

func renderCart(summary CartSummary) string {
	if len(summary.Items) == 0 {
		return MessageCartEmpty
	}
	var sb strings.Builder
	sb.WriteString("Your queue:\n")
	for i, item := range summary.Items {
		sb.WriteString(
			fmt.Sprintf(
				"%d) %s x%d = %s  (/remove %s)\n",
				i+1, item.Title, item.Quantity, model.FormatPrice(item.Subtotal()), item.ID,
			),
		)
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %s\nUse /checkout to secure your volumes.", model.FormatPrice(summary.Total)))
	return sb.String()
}

func renderReceipt(receipt model.Receipt) string {
	return fmt.Sprintf(
		"Archive Transmission\n\nConfirmation code: %s\nTotal: %s for %d volume(s)\n\nComplete the payment using the link below.",
		receipt.Code, model.FormatPrice(receipt.Total), countVolumes(receipt.Items),
	)
}

func countVolumes(items []model.CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func categoriesKeyboard() api.InlineKeyboardMarkup {
	selectors := append([]model.Category{model.CategoryAll}, model.Categories...)
	rows := make([][]api.InlineKeyboardButton, 0)
	buttons := make([]api.InlineKeyboardButton, 0, maxCategoryButtonsInRow)
	for _, selector := range selectors {
		if len(buttons) == maxCategoryButtonsInRow {
			rows = append(rows, buttons)
			buttons = make([]api.InlineKeyboardButton, 0, maxCategoryButtonsInRow)
		}
		buttons = append(buttons, api.NewInlineKeyboardButtonData(string(selector), callbackCategoryPrefix+string(selector)))
	}
	rows = append(rows, buttons)
	return api.NewInlineKeyboardMarkup(rows...)
}

func addToCartKeyboard(bookID string) api.InlineKeyboardMarkup {
	return api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonData("Add to cart", callbackAddPrefix+bookID)),
	)
}

func paymentKeyboard(paymentURL string) api.InlineKeyboardMarkup {
	return api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(api.NewInlineKeyboardButtonURL("Pay now", paymentURL)),
	)
}

// parseVolumeDraft reads "title | author | category | coverUrl | description | original".
// Trailing fields may be omitted and keep the draft defaults. The description may contain
// "|": only a final segment reading yes or no is taken as the original flag.
func parseVolumeDraft(args string) (model.VolumeDraft, error) {
	draft := model.NewVolumeDraft()
	if strings.TrimSpace(args) == "" {
		return draft, validation.Newf("usage: /newvolume title | author | category | coverUrl | description | original(yes/no)")
	}
	parts := strings.SplitN(args, "|", newVolumeHeadFields+1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	draft.Title = field(0)
	if author := field(1); author != "" {
		draft.Author = author
	}
	if raw := field(2); raw != "" {
		category, ok := model.ParseCategory(raw)
		if !ok || category == model.CategoryAll {
			return draft, validation.Newf("unknown category %q", raw)
		}
		draft.Category = category
	}
	draft.CoverURL = field(3)

	tail := field(newVolumeHeadFields)
	if i := strings.LastIndex(tail, "|"); i >= 0 {
		if original, ok := parseYesNo(strings.TrimSpace(tail[i+1:])); ok {
			draft.IsCreatorOriginal = original
			tail = strings.TrimSpace(tail[:i])
		}
	}
	draft.Description = tail
	return draft, nil
}

func parseYesNo(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}

// splitMessage cuts text into chunks of at most limit UTF-16 units, breaking at line
// ends where it can and inside a line only when the line alone is too long.
func splitMessage(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}
	var (
		chunks  []string
		current strings.Builder
		units   int
	)
	add := func(chunk string) {
		chunk = strings.TrimRight(chunk, "\n")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	flush := func() {
		add(current.String())
		current.Reset()
		units = 0
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		lineUnits := utf16Len(line)
		if units+lineUnits > limit {
			flush()
		}
		for lineUnits > limit {
			head, rest := cutUnits(line, limit)
			add(head)
			line, lineUnits = rest, utf16Len(rest)
		}
		current.WriteString(line)
		units += lineUnits
	}
	flush()
	return chunks
}

func utf16Len(s string) int {
	var n int
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// cutUnits splits s after at most limit UTF-16 units without breaking a rune.
func cutUnits(s string, limit int) (string, string) {
	var n int
	for i, r := range s {
		if n+runeUnits(r) > limit {
			return s[:i], s[i:]
		}
		n += runeUnits(r)
	}
	return s, ""
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
