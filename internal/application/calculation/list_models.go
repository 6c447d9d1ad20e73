package calculation

import domain "github.com/mohammadpnp/math-server/internal/domain/calculation"

type ModelGroup struct {
	Group  string               `json:"group"`
	Models []domain.Description `json:"models"`
}

type ListModels interface {
	Execute() []ModelGroup
}

type listModels struct {
	registry *domain.Registry
}

func NewListModels(registry *domain.Registry) ListModels {
	return &listModels{registry: registry}
}

func (uc *listModels) Execute() []ModelGroup {
	catalogue := uc.registry.Catalogue()
	groups := uc.registry.Groups()

	out := make([]ModelGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, ModelGroup{Group: g, Models: catalogue[g]})
	}
	return out
}
