package scoring

import (
	"github.com/hbollon/go-edlib"

	"github.com/refactorlab/rfx/internal/featureset"
	"github.com/refactorlab/rfx/internal/types"
)

// NamingConsistency populates the "naming_style_consistency" raw feature on
// entity's vector: the mean normalized Levenshtein distance between its name
// and its sibling entities' names in the same file. Low distance (near
// duplicates, or names drawn from the same vocabulary) scores low; a name
// that looks nothing like its neighbors scores high, flagging a possible
// naming-convention violation for the style category in computeScore.
func NamingConsistency(entity *types.CodeEntity, siblings []types.CodeEntity, vector *featureset.FeatureVector) error {
	if len(siblings) == 0 {
		vector.Set("naming_style_consistency", 0.0)
		return nil
	}

	var total float64
	var count int
	for _, sibling := range siblings {
		if sibling.ID == entity.ID {
			continue
		}
		dist, err := edlib.StringsSimilarity(entity.Name, sibling.Name, edlib.Levenshtein)
		if err != nil {
			continue
		}
		// StringsSimilarity returns 0..1 similarity; invert so higher means
		// "less consistent with its neighbors".
		total += 1.0 - float64(dist)
		count++
	}
	if count == 0 {
		vector.Set("naming_style_consistency", 0.0)
		return nil
	}
	vector.Set("naming_style_consistency", total/float64(count))
	return nil
}
