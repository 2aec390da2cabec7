package domain

// RegionLevel ranks a geographic entity in the dictionary hierarchy.
// Matching uses the rank to break ties: country > group > region > total.
type RegionLevel string

const (
	RegionLevelCountry RegionLevel = "country"
	RegionLevelGroup   RegionLevel = "group"
	RegionLevelRegion  RegionLevel = "region"
	RegionLevelTotal   RegionLevel = "total"
)

// Priority returns the tie-break rank of the level. Unrecognized levels rank
// lowest, same as totals.
func (l RegionLevel) Priority() int {
	switch l {
	case RegionLevelCountry:
		return 3
	case RegionLevelGroup:
		return 2
	case RegionLevelRegion:
		return 1
	default:
		return 0
	}
}

// RegionEntry is one curated geographic dictionary record. Entries are
// immutable after load.
type RegionEntry struct {
	Canonical   string      `yaml:"canonical" json:"canonical" validate:"required"`
	CanonicalEN string      `yaml:"canonical_en" json:"canonical_en"`
	AliasesJA   []string    `yaml:"aliases_ja" json:"aliases_ja"`
	AliasesEN   []string    `yaml:"aliases_en" json:"aliases_en"`
	Level       RegionLevel `yaml:"level" json:"level" validate:"required,oneof=country group region total"`
}
