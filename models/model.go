package models

import "time"

// Model is one vehicle model as extracted from the configurator.
// A model is identified by its configurator code (e.g. "982850"); one
// extraction run creates or updates exactly one Model row.
type Model struct {
	ID        int64
	Code      string
	Name      string
	Family    string
	BasePrice float64
	Year      int

	// TechnicalData holds the key/value pairs harvested from the
	// technical-data sub-page ("Puissance maxi" → "300 ch", ...).
	TechnicalData map[string]string

	// StandardEquipment is the ordered list of equipment names from the
	// standard-equipment sub-page. Order is preserved as rendered.
	StandardEquipment []string

	// Denormalized per-type counters, recomputed by the store after each
	// run via UpdateModelStats.
	Stats ModelStats

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ModelStats is the denormalized option count per option type.
type ModelStats struct {
	Options        int
	ExteriorColors int
	InteriorColors int
	Wheels         int
	Seats          int
	Packs          int
	Hoods          int
	Total          int
}

// Category groups options under a (name, parent, sub-category) identity.
type Category struct {
	ID          int64
	Name        string
	ParentName  string
	SubCategory string
	Slug        string
}

// PriceHistory records one price change for an option. A row is appended
// only when both the previously stored price and the new price are known
// and differ; null prices never produce history.
type PriceHistory struct {
	ID        int64
	OptionID  int64
	OldPrice  float64
	NewPrice  float64
	ChangedAt time.Time
}
