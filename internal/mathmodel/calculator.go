package mathmodel

import (
	"encoding/json"
	"fmt"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/shopspring/decimal"
)

const (
	SimpleCalculatorKind calculation.Kind = "simplecalculatormodel"
	AsyncCalculatorKind  calculation.Kind = "asynccalculatormodel"
)

type operation func(a, b decimal.Decimal) decimal.Decimal

var operations = map[string]operation{
	"add": func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) },
	"sub": func(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) },
	"mul": func(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) },
	// A non-positive divisor yields zero instead of an error.
	"div": func(a, b decimal.Decimal) decimal.Decimal {
		if !b.IsPositive() {
			return decimal.Zero
		}
		return a.Div(b)
	},
}

// Operations lists the supported operation codes.
func Operations() []string {
	return []string{"add", "sub", "mul", "div"}
}

// Calculator applies a binary arithmetic operation to val1 and val2.
type Calculator struct {
	desc calculation.Description
}

func NewSimpleCalculator() *Calculator {
	return &Calculator{desc: calculation.Description{
		ID:          SimpleCalculatorKind,
		VerboseName: "Простой калькулятор",
		Description: "Простая модель, выполняющая арифметические операции с числами.",
		IconPath:    "core/img/CH.png",
		Group:       GroupCalculators,
	}}
}

func NewAsyncCalculator() *Calculator {
	return &Calculator{desc: calculation.Description{
		ID:          AsyncCalculatorKind,
		VerboseName: "Асинхронный калькулятор",
		Description: "Асинхронная модель, выполняющая арифметические операции с числами.",
		IconPath:    "core/img/oil1.png",
		Group:       GroupCalculators,
		Async:       true,
	}}
}

func (c *Calculator) Describe() calculation.Description {
	return c.desc
}

func (c *Calculator) Calculate(raw json.RawMessage) (json.RawMessage, error) {
	input, err := decodeInput(raw)
	if err != nil {
		return nil, err
	}

	val1, err := requireDecimal(input, "val1", "Не указан операнд №1")
	if err != nil {
		return nil, err
	}
	val2, err := requireDecimal(input, "val2", "Не указан операнд №2")
	if err != nil {
		return nil, err
	}

	opCode, _ := input["op"].(string)
	op, ok := operations[opCode]
	if !ok {
		return nil, calculation.New("Не указана арифметическая операция, либо операция не поддерживается")
	}

	out, err := json.Marshal(map[string]any{"result": op(val1, val2).InexactFloat64()})
	if err != nil {
		return nil, fmt.Errorf("encode calculator output: %w", err)
	}
	return out, nil
}
