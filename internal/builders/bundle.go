package builders

import "github.com/decodestack/decode-gate/internal/models"

// BuildBundle runs all six family builders for one channel and assembles
// the result into an atomic InputBundle.
func BuildBundle(src Source, channel string) (models.InputBundle, error) {
	return models.NewInputBundle(channel, map[models.Family]models.Input{
		models.FamilyEvents:    BuildEvents(src, channel),
		models.FamilyIntervals: BuildIntervals(src, channel),
		models.FamilySymbols:   BuildSymbols(src, channel),
		models.FamilyVectors:   BuildVectors(src, channel),
		models.FamilyMatrices:  BuildMatrices(src, channel),
		models.FamilyRelations: BuildRelations(src, channel),
	})
}
