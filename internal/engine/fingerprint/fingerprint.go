// Package fingerprint implements the skip decision for target
// invocations and the stamping that backs it.
package fingerprint

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Verdict is the outcome of evaluating a target against its stamp.
// Signatures always carries the complete, freshly computed signature of
// every resolved input, regardless of the skip verdict, so the caller
// can write a new stamp after running.
type Verdict struct {
	MustRun    bool
	Signatures map[string]domain.Signature
}

// Evaluator decides whether a target's invocation may be skipped and
// writes fresh stamps after successful invocations. Any ambiguity
// resolves to "must run": skipping with stale outputs is never
// acceptable, re-running unnecessarily is.
type Evaluator struct {
	hasher ports.Hasher
	store  ports.StampStore
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(hasher ports.Hasher, store ports.StampStore) *Evaluator {
	return &Evaluator{
		hasher: hasher,
		store:  store,
	}
}

// Evaluate computes the skip verdict for a target given its resolved
// inputs. Phony targets never skip. A missing stamp, a deleted recorded
// output, a changed input count or any input signature mismatch forces
// a run. A resolved input that does not exist on disk is a fatal error
// naming the target: it indicates a broken declaration or a caller
// ordering bug, not a cache miss.
func (e *Evaluator) Evaluate(target *domain.Target, inputs []domain.Entity, env *domain.Environment) (*Verdict, error) {
	if target.Phony {
		return &Verdict{MustRun: true, Signatures: map[string]domain.Signature{}}, nil
	}

	stamp, err := e.store.Read(env, target.Name)
	if err != nil {
		return nil, err
	}

	mustRun := false
	var previous map[string]domain.Signature

	switch {
	case stamp == nil:
		mustRun = true
	case outputsMissing(stamp.Outputs):
		mustRun = true
	case len(inputs) != len(stamp.Inputs):
		mustRun = true
	default:
		previous = stamp.InputMap()
	}

	signatures := make(map[string]domain.Signature, len(inputs))
	for _, input := range inputs {
		if _, err := os.Stat(input.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, zerr.With(zerr.With(domain.ErrMissingInput,
					"target", target.Name.String()), "path", input.Path)
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to stat input"), "path", input.Path)
		}

		current, err := e.hasher.Signature(input)
		if err != nil {
			return nil, err
		}
		signatures[input.Path] = current

		if !mustRun && previous[input.Path] != current {
			mustRun = true
		}
	}

	return &Verdict{MustRun: mustRun, Signatures: signatures}, nil
}

// WriteStamp persists a fresh stamp after a successful invocation. All
// declared outputs must exist on disk; a missing output is a fatal
// error naming the target and no stamp is written, so the on-disk state
// stays consistent with the last known good run. No-op for phony
// targets.
func (e *Evaluator) WriteStamp(
	target *domain.Target,
	inputs []domain.Entity,
	outputs []domain.Entity,
	env *domain.Environment,
	signatures map[string]domain.Signature,
) error {
	if target.Phony {
		return nil
	}

	outputPaths := make([]string, 0, len(outputs))
	for _, output := range outputs {
		if _, err := os.Stat(output.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return zerr.With(zerr.With(domain.ErrMissingOutput,
					"target", target.Name.String()), "path", output.Path)
			}
			return zerr.With(zerr.Wrap(err, "failed to stat output"), "path", output.Path)
		}
		outputPaths = append(outputPaths, output.Path)
	}

	recorded := make([]domain.InputSignature, 0, len(inputs))
	for _, input := range inputs {
		recorded = append(recorded, domain.InputSignature{
			Path:      input.Path,
			Signature: signatures[input.Path],
		})
	}

	return e.store.Write(env, target.Name, &domain.Stamp{
		Inputs:  recorded,
		Outputs: outputPaths,
	})
}

// outputsMissing reports whether any previously recorded output path no
// longer exists on disk.
func outputsMissing(paths []string) bool {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return true
		}
	}
	return false
}
