// Package featureset holds the per-entity FeatureVector store (C2): the
// mapping from feature name to raw and normalized value that every other
// analysis component reads from or writes into.
package featureset

import "github.com/refactorlab/rfx/internal/types"

// FeatureVector carries every measured feature for a single CodeEntity,
// both before (Features) and after (NormalizedFeatures) C3 normalization.
type FeatureVector struct {
	EntityID           types.EntityID
	Features           map[string]float64
	NormalizedFeatures map[string]float64
}

// NewFeatureVector returns an empty vector ready to accept raw features.
func NewFeatureVector(entityID types.EntityID) *FeatureVector {
	return &FeatureVector{
		EntityID:           entityID,
		Features:           make(map[string]float64),
		NormalizedFeatures: make(map[string]float64),
	}
}

// Set records a raw feature value.
func (fv *FeatureVector) Set(name string, value float64) {
	fv.Features[name] = value
}

// Get returns the raw feature value and whether it was present.
func (fv *FeatureVector) Get(name string) (float64, bool) {
	v, ok := fv.Features[name]
	return v, ok
}

// Names returns the set of raw feature names present on this vector, in
// sorted order for deterministic iteration by downstream components.
func (fv *FeatureVector) Names() []string {
	names := make([]string, 0, len(fv.Features))
	for name := range fv.Features {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}

// sortStrings avoids pulling in sort.Strings at every call site; kept local
// since it is only ever used on small per-vector feature-name slices.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Store holds the feature vectors for every entity discovered in an
// analysis run, indexed by EntityID.
type Store struct {
	vectors map[types.EntityID]*FeatureVector
}

// NewStore returns an empty feature vector store.
func NewStore() *Store {
	return &Store{vectors: make(map[types.EntityID]*FeatureVector)}
}

// GetOrCreate returns the vector for entityID, creating it if absent.
func (s *Store) GetOrCreate(entityID types.EntityID) *FeatureVector {
	fv, ok := s.vectors[entityID]
	if !ok {
		fv = NewFeatureVector(entityID)
		s.vectors[entityID] = fv
	}
	return fv
}

// All returns every vector in the store, in insertion-independent but
// stable (EntityID-ascending) order.
func (s *Store) All() []*FeatureVector {
	out := make([]*FeatureVector, 0, len(s.vectors))
	for _, fv := range s.vectors {
		out = append(out, fv)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].EntityID > out[j].EntityID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Len reports how many entities have feature vectors.
func (s *Store) Len() int {
	return len(s.vectors)
}
