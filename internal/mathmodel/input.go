package mathmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/shopspring/decimal"
)

const errNoInput = "Отсутствуют входные данные для алгоритма"

// decodeInput decodes a JSON object keeping numbers as json.Number.
// Missing, null or empty input is a calculation error.
func decodeInput(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, calculation.New(errNoInput)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, calculation.Errorf("Некорректный формат входных данных: %v", err)
	}
	if len(input) == 0 {
		return nil, calculation.New(errNoInput)
	}
	return input, nil
}

// toDecimal converts a JSON scalar to a decimal. ok is false for absent,
// null and empty-string values.
func toDecimal(value any) (d decimal.Decimal, ok bool, err error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false, nil
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case float64:
		d = decimal.NewFromFloat(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err = decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	case bool:
		return decimal.Zero, false, fmt.Errorf("unexpected boolean %v", v)
	default:
		return decimal.Zero, false, fmt.Errorf("unexpected value %v", v)
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

func requireDecimal(input map[string]any, key, missingMessage string) (decimal.Decimal, error) {
	d, ok, err := toDecimal(input[key])
	if err != nil {
		return decimal.Zero, calculation.Errorf("Некорректное значение поля %s", key)
	}
	if !ok {
		return decimal.Zero, calculation.New(missingMessage)
	}
	return d, nil
}
