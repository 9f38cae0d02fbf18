// Package export renders ledger data into documents: printable receipts,
// stock movement reports and spreadsheet workbooks. Export functions are
// read-only views and never touch the ledger.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/glasspos/internal/models"
)

const (
	ReceiptWidth    = 32
	receiptNameCols = 18
	receiptQtyCols  = 5
	receiptFooter   = "Thank you! Visit Again."
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with two decimals and thousands grouping.
func Money(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// WriteReceipt renders a fixed-width text receipt for sale.
func WriteReceipt(w io.Writer, sale models.Sale, profile models.BusinessProfile, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	name := profile.Name
	if name == "" {
		name = "Glass POS"
	}
	rule := strings.Repeat("-", ReceiptWidth)
	date := sale.Date.In(loc)

	var b strings.Builder
	b.WriteString(center(name))
	if profile.Address != "" {
		b.WriteString(center(profile.Address))
	}
	if profile.Phone != "" {
		b.WriteString(center("Tel: " + profile.Phone))
	}
	if profile.GST != "" {
		b.WriteString(center("GST: " + profile.GST))
	}
	b.WriteString(rule + "\n")
	b.WriteString(spread("Bill: "+sale.BillNo(), date.Format("02/01/2006")))
	b.WriteString(date.Format("15:04:05") + "\n")
	if sale.Cashier != "" {
		b.WriteString("Cashier: " + sale.Cashier + "\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(itemRow("Item", "Qty", "Price"))
	for _, item := range sale.Items {
		b.WriteString(itemRow(truncate(item.Name, receiptNameCols), fmt.Sprint(item.Quantity), Money(item.Amount())))
	}
	b.WriteString(rule + "\n")
	b.WriteString(spread("TOTAL", "Rs. "+Money(sale.Total)))
	b.WriteString(rule + "\n")
	b.WriteString(center(receiptFooter))

	_, err := io.WriteString(w, b.String())
	return err
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= ReceiptWidth {
		return s + "\n"
	}
	return strings.Repeat(" ", (ReceiptWidth-n)/2) + s + "\n"
}

func spread(left, right string) string {
	gap := ReceiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func itemRow(name, qty, price string) string {
	priceCols := ReceiptWidth - receiptNameCols - receiptQtyCols
	return fmt.Sprintf("%-*s%*s%*s\n", receiptNameCols, name, receiptQtyCols, qty, priceCols, price)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
