package mathmodel

import "github.com/mohammadpnp/math-server/internal/domain/calculation"

const (
	GroupCalculators = "calculators"
	GroupProduction  = "production"
)

// NewRegistry returns the registry of every model the server offers.
func NewRegistry() (*calculation.Registry, error) {
	return calculation.NewRegistry(
		NewWellProduction(),
		NewSimpleCalculator(),
		NewAsyncCalculator(),
	)
}
