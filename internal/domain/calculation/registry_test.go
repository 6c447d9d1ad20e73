package calculation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	desc calculation.Description
}

func (s stubModel) Calculate(input json.RawMessage) (json.RawMessage, error) {
	return input, nil
}

func (s stubModel) Describe() calculation.Description {
	return s.desc
}

func TestRegistryLookupAndCatalogue(t *testing.T) {
	t.Parallel()

	registry, err := calculation.NewRegistry(
		stubModel{desc: calculation.Description{ID: "a", Group: "calculators"}},
		stubModel{desc: calculation.Description{ID: "b", Group: "production"}},
		stubModel{desc: calculation.Description{ID: "c", Group: "calculators", Async: true}},
	)
	require.NoError(t, err)

	m, err := registry.Lookup("c")
	require.NoError(t, err)
	require.True(t, m.Describe().Async)

	_, err = registry.Lookup("missing")
	require.True(t, errors.Is(err, calculation.ErrUnknownKind))

	catalogue := registry.Catalogue()
	require.Len(t, catalogue["calculators"], 2)
	require.Equal(t, calculation.Kind("a"), catalogue["calculators"][0].ID)
	require.Equal(t, calculation.Kind("c"), catalogue["calculators"][1].ID)
	require.Equal(t, []string{"calculators", "production"}, registry.Groups())
	require.Equal(t, []calculation.Kind{"a", "b", "c"}, registry.Kinds())
}

func TestRegistryRejectsDuplicateKinds(t *testing.T) {
	t.Parallel()

	_, err := calculation.NewRegistry(
		stubModel{desc: calculation.Description{ID: "a"}},
		stubModel{desc: calculation.Description{ID: "a"}},
	)
	require.ErrorIs(t, err, calculation.ErrDuplicateKind)
}
