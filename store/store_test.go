package store

import (
	"path/filepath"
	"testing"

	"github.com/LouisZerri/porsche-options-sub000/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "options.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testModel() *models.Model {
	return &models.Model{
		Code:              "982850",
		Name:              "911 Carrera",
		Family:            "911",
		BasePrice:         129487,
		Year:              2026,
		TechnicalData:     map[string]string{"Puissance maxi": "394 ch"},
		StandardEquipment: []string{"Sièges sport"},
	}
}

func TestUpsertModel_Idempotent(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.UpsertModel(testModel())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	m := testModel()
	m.BasePrice = 131000
	id2, err := s.UpsertModel(m)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id1 != id2 {
		t.Errorf("re-upsert created a new row: %d vs %d", id1, id2)
	}

	got, err := s.ModelByCode("982850")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.BasePrice != 131000 {
		t.Errorf("re-upsert did not overwrite, got %+v", got)
	}
	if got.TechnicalData["Puissance maxi"] != "394 ch" {
		t.Errorf("technical data lost: %v", got.TechnicalData)
	}
}

func TestModelByCode_Unknown(t *testing.T) {
	s := openTestStore(t)
	got, err := s.ModelByCode("000000")
	if err != nil {
		t.Fatalf("unknown code must not error: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestGetOrCreateCategory_Identity(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.GetOrCreateCategory("Jantes", "wheel", "")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.GetOrCreateCategory("Jantes", "wheel", "")
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("same identity created two rows: %d vs %d", id1, id2)
	}

	id3, err := s.GetOrCreateCategory("Jantes", "wheel", "20 pouces")
	if err != nil {
		t.Fatal(err)
	}
	if id3 == id1 {
		t.Error("a different sub-category is a different identity")
	}
}

func TestUpsertOption_PriceChangeAppendsHistory(t *testing.T) {
	s := openTestStore(t)
	modelID, err := s.UpsertModel(testModel())
	if err != nil {
		t.Fatal(err)
	}

	opt := &models.Option{
		Code: "CE1", Name: "Jantes Carrera S",
		Price: models.Price(2690), Type: models.TypeWheel,
	}
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same price again: no history.
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatal(err)
	}
	hist, err := s.HistoryByOption(opt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Fatalf("unchanged price appended history: %d rows", len(hist))
	}

	// Changed price: exactly one row.
	opt.Price = models.Price(2890)
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatal(err)
	}
	hist, err = s.HistoryByOption(opt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 {
		t.Fatalf("got %d history rows, want 1", len(hist))
	}
	if hist[0].OldPrice != 2690 || hist[0].NewPrice != 2890 {
		t.Errorf("history row = %+v", hist[0])
	}

	opts, err := s.OptionsByModel(modelID)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 || opts[0].Price == nil || *opts[0].Price != 2890 {
		t.Errorf("stored price not overwritten: %+v", opts[0])
	}
}

func TestUpsertOption_NullPriceNeverProducesHistory(t *testing.T) {
	s := openTestStore(t)
	modelID, err := s.UpsertModel(testModel())
	if err != nil {
		t.Fatal(err)
	}

	opt := &models.Option{Code: "NX", Name: "Inconnu", Type: models.TypeOption}
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatal(err)
	}

	// nil → known: no history (the old price was unknown).
	opt.Price = models.Price(500)
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatal(err)
	}
	// known → nil: no history either.
	opt.Price = nil
	if err := s.UpsertOption(modelID, opt); err != nil {
		t.Fatal(err)
	}

	hist, err := s.HistoryByOption(opt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Errorf("null transitions appended history: %d rows", len(hist))
	}

	opts, err := s.OptionsByModel(modelID)
	if err != nil {
		t.Fatal(err)
	}
	if opts[0].Price != nil {
		t.Errorf("final price = %v, want nil", *opts[0].Price)
	}
}

func TestUpsertOption_MergeKeepsIdentity(t *testing.T) {
	s := openTestStore(t)
	modelID, err := s.UpsertModel(testModel())
	if err != nil {
		t.Fatal(err)
	}

	a := &models.Option{Code: "0Q", Name: "Blanc Carrara", Type: models.TypeColorExt}
	if err := s.UpsertOption(modelID, a); err != nil {
		t.Fatal(err)
	}
	b := &models.Option{Code: "0Q", Name: "Blanc Carrara Métallisé", Type: models.TypeColorExt}
	if err := s.UpsertOption(modelID, b); err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("same (model, code) must merge into one row: %d vs %d", a.ID, b.ID)
	}

	opts, err := s.OptionsByModel(modelID)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 || opts[0].Name != "Blanc Carrara Métallisé" {
		t.Errorf("merge did not overwrite fields: %+v", opts)
	}
}

func TestUpdateModelStats(t *testing.T) {
	s := openTestStore(t)
	modelID, err := s.UpsertModel(testModel())
	if err != nil {
		t.Fatal(err)
	}

	seed := []*models.Option{
		{Code: "0Q", Name: "Blanc", Type: models.TypeColorExt},
		{Code: "2W", Name: "Gris", Type: models.TypeColorExt},
		{Code: "CE1", Name: "Jantes", Type: models.TypeWheel},
		{Code: "XSC", Name: "Pack", Type: models.TypePack},
	}
	for _, o := range seed {
		if err := s.UpsertOption(modelID, o); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.UpdateModelStats(modelID); err != nil {
		t.Fatal(err)
	}

	m, err := s.ModelByCode("982850")
	if err != nil {
		t.Fatal(err)
	}
	want := models.ModelStats{ExteriorColors: 2, Wheels: 1, Packs: 1, Total: 4}
	if m.Stats != want {
		t.Errorf("stats = %+v, want %+v", m.Stats, want)
	}
}
