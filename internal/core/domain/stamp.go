package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// Signature is the content signature of one resolved input entity:
// a content hash for regular files, a modification timestamp for
// directories.
type Signature string

// InputSignature pairs an absolute input path with its signature. It
// marshals as a two-element JSON array to match the stamp file format.
type InputSignature struct {
	Path      string
	Signature Signature
}

// MarshalJSON encodes the pair as ["path", "signature"].
func (s InputSignature) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{s.Path, string(s.Signature)})
}

// UnmarshalJSON decodes a ["path", "signature"] pair.
func (s *InputSignature) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return zerr.Wrap(err, "failed to decode input signature pair")
	}
	s.Path = pair[0]
	s.Signature = Signature(pair[1])
	return nil
}

// Stamp is the persisted record of a target's last successful run: the
// signature of every resolved input and the absolute paths of the
// outputs it produced. Stamps are keyed on disk by the
// (target name, build mode, target platform) triple. A stamp is read at
// the start of a target's evaluation and written only after a
// successful invocation; it is never written for phony targets.
type Stamp struct {
	Inputs  []InputSignature `json:"inputs"`
	Outputs []string         `json:"outputs"`
}

// InputMap returns the recorded input signatures keyed by absolute path.
func (s *Stamp) InputMap() map[string]Signature {
	m := make(map[string]Signature, len(s.Inputs))
	for _, in := range s.Inputs {
		m[in.Path] = in.Signature
	}
	return m
}

// TargetManifest is the read-only description of one target produced by
// the executor's describe walk: declared metadata plus fully resolved
// absolute input and output paths. It is suitable for serialization to
// external build-integration tooling.
type TargetManifest struct {
	Name         string   `json:"name"`
	Phony        bool     `json:"phony"`
	Dependencies []string `json:"dependencies"`
	Inputs       []string `json:"inputs"`
	Outputs      []string `json:"outputs"`
}
