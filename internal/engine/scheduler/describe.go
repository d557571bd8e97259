package scheduler

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Describe performs the same closure walk and input/output resolution
// as Build but never invokes anything and never consults the stamp
// store. The returned manifests list the root's transitive closure in
// dependency-first order, one entry per target, suitable for
// serialization to external build-integration tooling.
func (s *Scheduler) Describe(graph *domain.Graph, env *domain.Environment, targetName string) ([]domain.TargetManifest, error) {
	root, ok := graph.GetTarget(domain.NewInternedString(targetName))
	if !ok {
		return nil, zerr.With(domain.ErrTargetNotFound, "target", targetName)
	}

	closure, err := graph.Closure(root.Name)
	if err != nil {
		return nil, err
	}

	manifests := make([]domain.TargetManifest, 0, len(closure))
	for _, target := range closure {
		inputs, err := s.resolver.Resolve(target.Inputs, env)
		if err != nil {
			return nil, zerr.With(err, "target", target.Name.String())
		}
		outputs, err := s.resolver.Resolve(target.Outputs, env)
		if err != nil {
			return nil, zerr.With(err, "target", target.Name.String())
		}

		deps := make([]string, len(target.Dependencies))
		for i, dep := range target.Dependencies {
			deps[i] = dep.String()
		}

		manifests = append(manifests, domain.TargetManifest{
			Name:         target.Name.String(),
			Phony:        target.Phony,
			Dependencies: deps,
			Inputs:       entityPaths(inputs),
			Outputs:      entityPaths(outputs),
		})
	}
	return manifests, nil
}

func entityPaths(entities []domain.Entity) []string {
	paths := make([]string, len(entities))
	for i, e := range entities {
		paths[i] = e.Path
	}
	return paths
}
