package transaction

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCsvRenderer_Render(t *testing.T) {
	renderer := NewCsvRenderer()

	occurredAt := time.Date(2025, time.September, 10, 14, 5, 9, 0, time.Local)
	transactions := []Transaction{
		{
			ID:         7,
			Amount:     decimal.RequireFromString("30.50"),
			Type:       TypeExpense,
			Category:   "Food",
			Notes:      "Lunch",
			OccurredAt: occurredAt,
		},
		{
			ID:         8,
			Amount:     decimal.NewFromInt(100),
			Type:       TypeIncome,
			Category:   "Income",
			Notes:      `said "thanks"`,
			OccurredAt: occurredAt,
		},
	}

	out, err := renderer.Render(transactions)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Type,Category,Amount,Notes", lines[0])
	assert.Equal(t, `7,2025-09-10 14:05:09,EXPENSE,"Food",30.50,"Lunch"`, lines[1])
	assert.Equal(t, `8,2025-09-10 14:05:09,INCOME,"Income",100,"said ""thanks"""`, lines[2])
}

func TestCsvRenderer_EmptyLedger(t *testing.T) {
	renderer := NewCsvRenderer()

	out, err := renderer.Render(nil)
	assert.NoError(t, err)
	assert.Equal(t, "ID,Date,Type,Category,Amount,Notes\n", out)
}
