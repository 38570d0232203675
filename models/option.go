package models

// OptionType classifies a configurable option. The set is closed: the
// classifier never emits a value outside these constants.
type OptionType string

const (
	TypeOption   OptionType = "option"
	TypeColorExt OptionType = "color_ext"
	TypeColorInt OptionType = "color_int"
	TypeWheel    OptionType = "wheel"
	TypeSeat     OptionType = "seat"
	TypePack     OptionType = "pack"
	TypeHood     OptionType = "hood"
)

// Valid reports whether t is one of the closed enum values.
func (t OptionType) Valid() bool {
	switch t {
	case TypeOption, TypeColorExt, TypeColorInt, TypeWheel, TypeSeat, TypePack, TypeHood:
		return true
	}
	return false
}

// Option is one configurable item for a specific model. Identity is
// (ModelID, Code); re-running an extraction merges into the same row.
type Option struct {
	ID         int64
	ModelID    int64
	CategoryID int64
	Code       string
	Name       string

	// LocalName is the name in the secondary locale, when the run was
	// asked to fetch it. Empty otherwise.
	LocalName   string
	Description string

	// Price is nil when the option is known to be payable but the amount
	// could not be resolved. A zero price does not imply IsStandard: a
	// paid option can cost 0 during a promotion, so the two fields are
	// tracked independently.
	Price      *float64
	IsStandard bool

	// IsExclusive marks membership in the Porsche Exclusive Manufaktur
	// customization program.
	IsExclusive bool

	Type        OptionType
	SubCategory string

	// ImageRef is either an absolute image URL or a swatch value of the
	// form "swatch:#RRGGBB[,#RRGGBB]". Empty when no image was resolved.
	ImageRef string

	// DisplayOrder is monotonic within one extraction run and is the only
	// run-dependent field of an otherwise deterministic classification.
	DisplayOrder int
}

// Price returns a pointer to v, for building nullable prices inline.
func Price(v float64) *float64 { return &v }

// PriceEqual compares two nullable prices.
func PriceEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
