package models

// Family identifies one of the six canonical observation categories.
type Family string

const (
	FamilyEvents    Family = "E"
	FamilyIntervals Family = "Δ"
	FamilySymbols   Family = "S"
	FamilyVectors   Family = "V"
	FamilyMatrices  Family = "M"
	FamilyRelations Family = "R"
)

// Families returns the canonical family set in its fixed evaluation order.
func Families() []Family {
	return []Family{
		FamilyEvents,
		FamilyIntervals,
		FamilySymbols,
		FamilyVectors,
		FamilyMatrices,
		FamilyRelations,
	}
}

// ValidFamily reports whether f is one of the six canonical tags.
func ValidFamily(f Family) bool {
	switch f {
	case FamilyEvents, FamilyIntervals, FamilySymbols, FamilyVectors, FamilyMatrices, FamilyRelations:
		return true
	}
	return false
}
