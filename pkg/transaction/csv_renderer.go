package transaction

import (
	"strconv"
	"strings"
)

// CsvRenderer renders transactions into the export format consumed by
// external tools: a header row of ID,Date,Type,Category,Amount,Notes, dates
// in local time, category and notes always double-quoted. encoding/csv only
// quotes fields that need it, so the rows are assembled by hand.
type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (r *CsvRenderer) Render(transactions []Transaction) (string, error) {
	var b strings.Builder
	b.WriteString("ID,Date,Type,Category,Amount,Notes\n")

	for _, tx := range transactions {
		row := []string{
			strconv.FormatInt(tx.ID, 10),
			tx.OccurredAt.Local().Format("2006-01-02 15:04:05"),
			string(tx.Type),
			quote(tx.Category),
			tx.Amount.String(),
			quote(tx.Notes),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// quote wraps s in double quotes, doubling any quotes it contains.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
