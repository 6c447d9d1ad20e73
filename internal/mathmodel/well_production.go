package mathmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/shopspring/decimal"
)

const WellProductionKind calculation.Kind = "wellproductionmodel"

// WellProduction forecasts monthly oil production from the
// "recovered share of reserves / water cut" table.
//
// Each niz_table row is [date, recovered share, water cut]. For every row the
// month's liquid volume is days*debit, reduced by the water cut of the row
// whose recovered share is closest to the share produced so far.
type WellProduction struct{}

func NewWellProduction() *WellProduction {
	return &WellProduction{}
}

func (WellProduction) Describe() calculation.Description {
	return calculation.Description{
		ID:          WellProductionKind,
		VerboseName: "Прогнозирование добычи",
		Description: "Модель позволяет прогнозировать добычу на основании таблицы “Отбор от НИЗ / Обводненность”.",
		IconPath:    "core/img/well.png",
		Group:       GroupProduction,
	}
}

type nizRow struct {
	date     time.Time
	share    decimal.Decimal
	waterCut decimal.Decimal
}

func (w WellProduction) Calculate(raw json.RawMessage) (json.RawMessage, error) {
	input, err := decodeInput(raw)
	if err != nil {
		return nil, err
	}

	rows, err := parseNizTable(input["niz_table"])
	if err != nil {
		return nil, err
	}

	kin, err := requireNonZero(input, "kin", "Не указан КИН")
	if err != nil {
		return nil, err
	}
	debit, err := requireNonZero(input, "debit", "Не указан дебит жидкости")
	if err != nil {
		return nil, err
	}
	total, err := requireNonZero(input, "total", "Не указана величина геологических запасов")
	if err != nil {
		return nil, err
	}

	niz := total.Mul(kin)
	shares := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		shares[i] = row.share
	}

	table := make([][]any, 0, len(rows))
	currentSum := decimal.Zero
	for i, row := range rows {
		var next time.Time
		if i < len(rows)-1 {
			next = rows[i+1].date
		} else {
			next = time.Date(row.date.Year(), row.date.Month(), 1, 0, 0, 0, 0, row.date.Location()).AddDate(0, 1, 0)
		}

		days := int64(math.Floor(next.Sub(row.date).Hours() / 24))
		if days <= 0 {
			return nil, calculation.Errorf("Даты в таблице должны возрастать (строка %d)", i+1)
		}

		closest := closestIndex(shares, currentSum.Div(niz))
		delta := decimal.NewFromInt(1).Sub(rows[closest].waterCut)
		monthSum := decimal.NewFromInt(days).Mul(debit).Mul(delta)
		currentDebit := monthSum.Div(decimal.NewFromInt(days))
		currentSum = currentSum.Add(monthSum)

		table = append(table, []any{row.date.Format("2006-01-02"), monthSum.InexactFloat64(), currentDebit.InexactFloat64()})
	}

	out, err := json.Marshal(map[string]any{
		"production_table": table,
		"niz":              niz.InexactFloat64(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode well production output: %w", err)
	}
	return out, nil
}

func requireNonZero(input map[string]any, key, missingMessage string) (decimal.Decimal, error) {
	d, err := requireDecimal(input, key, missingMessage)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, calculation.New(missingMessage)
	}
	return d, nil
}

func parseNizTable(value any) ([]nizRow, error) {
	const missing = "Не заполнена таблица “Отбор от НИЗ / Обводненность”"

	rawRows, ok := value.([]any)
	if !ok || len(rawRows) == 0 {
		return nil, calculation.New(missing)
	}

	rows := make([]nizRow, 0, len(rawRows))
	for i, rawRow := range rawRows {
		cells, ok := rawRow.([]any)
		if !ok || len(cells) < 3 {
			return nil, calculation.Errorf("Строка %d таблицы должна содержать дату, отбор от НИЗ и обводненность", i+1)
		}

		dateText, _ := cells[0].(string)
		date, err := parseTableDate(dateText)
		if err != nil {
			return nil, calculation.Errorf("Некорректная дата в строке %d таблицы", i+1)
		}

		share, ok, err := toDecimal(cells[1])
		if err != nil || !ok {
			return nil, calculation.Errorf("Некорректный отбор от НИЗ в строке %d таблицы", i+1)
		}
		waterCut, ok, err := toDecimal(cells[2])
		if err != nil || !ok {
			return nil, calculation.Errorf("Некорректная обводненность в строке %d таблицы", i+1)
		}

		rows = append(rows, nizRow{date: date, share: share, waterCut: waterCut})
	}
	return rows, nil
}

func parseTableDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// closestIndex returns the index of the last value in sorted that does not
// exceed number, clamped to the bounds of the slice.
func closestIndex(sorted []decimal.Decimal, number decimal.Decimal) int {
	pos := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].GreaterThanOrEqual(number)
	})
	if pos == 0 {
		return 0
	}
	if pos == len(sorted) {
		return pos - 1
	}
	if sorted[pos].GreaterThan(number) {
		return pos - 1
	}
	return pos
}
