package personnel

import (
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
	"golang.org/x/sync/errgroup"
)

// Extract runs every parser concurrently over the shared read-only document
// and waits for all of them. Failures of all kinds are joined into one error
// wrapping ErrExtraction; no partial result is returned in that case.
func Extract(doc *domain.Document, specs []ParserSpec) (map[domain.EntityKind][]domain.Record, error) {
	results := make([][]domain.Record, len(specs))
	errs := make([]error, len(specs))

	var g errgroup.Group
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s parser panicked: %v", spec.Kind, r)
					errs[i] = err
				}
			}()

			records, parseErr := spec.Parse(doc)
			if parseErr != nil {
				errs[i] = fmt.Errorf("%s: %w", spec.Kind, parseErr)
				return errs[i]
			}
			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, errors.Join(errs...))
	}

	out := make(map[domain.EntityKind][]domain.Record, len(specs))
	for i, spec := range specs {
		out[spec.Kind] = append(out[spec.Kind], results[i]...)
	}
	return out, nil
}
