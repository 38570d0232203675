package catalog

import (
	"testing"

	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

const fixturePage = `
<body>
<header><h1>911 Carrera Cabriolet</h1></header>
<section>
  <h2>Teintes extérieures</h2>
  <div>
    <h3>Teintes standard</h3>
    <div><label><input type="radio" value="0Q" aria-label="Blanc Carrara Métallisé"></label></div>
  </div>
  <div>
    <h3>Capote</h3>
    <div><input type="radio" value="A1" aria-label="Capote noire"></div>
  </div>
</section>
<section>
  <h2>Jantes</h2>
  <div><input type="checkbox" value="CE1" aria-label="Jantes Carrera S 20/21 pouces"></div>
  <div><a href="/fr-FR/options/XRS/">Voir plus d'informations sur : Jantes RS Spyder</a></div>
  <div><a href="/configure?option=CE1">Jantes Carrera S</a></div>
</section>
<section>
  <h2>Récapitulatif de votre configuration</h2>
  <div><input type="radio" value="ZZ9"></div>
</section>
</body>`

func classifyFixture(t *testing.T) []*Candidate {
	t.Helper()
	snap, err := dom.Parse(fixturePage)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return Classify(snap, NewSeenCodes())
}

func byCode(cands []*Candidate) map[string]*Candidate {
	out := make(map[string]*Candidate, len(cands))
	for _, c := range cands {
		out[c.Code] = c
	}
	return out
}

func TestClassify_ExteriorColor(t *testing.T) {
	cands := byCode(classifyFixture(t))

	c, ok := cands["0Q"]
	if !ok {
		t.Fatal("code 0Q not classified")
	}
	if c.Type != models.TypeColorExt {
		t.Errorf("0Q type = %s, want color_ext", c.Type)
	}
	if c.Name != "Blanc Carrara Métallisé" {
		t.Errorf("0Q name = %q", c.Name)
	}
	if c.Category != "Teintes extérieures" {
		t.Errorf("0Q category = %q", c.Category)
	}
	if c.SubCategory != "Teintes standard" {
		t.Errorf("0Q sub-category = %q", c.SubCategory)
	}
}

func TestClassify_HoodRetype(t *testing.T) {
	cands := byCode(classifyFixture(t))

	c, ok := cands["A1"]
	if !ok {
		t.Fatal("code A1 not classified")
	}
	if c.Type != models.TypeHood {
		t.Errorf("A1 type = %s, want hood (sub-category %q names the roof)", c.Type, c.SubCategory)
	}
}

func TestClassify_FirstOccurrenceWins(t *testing.T) {
	cands := classifyFixture(t)

	seen := 0
	for _, c := range cands {
		if c.Code == "CE1" {
			seen++
			if c.FromAnchor {
				t.Error("CE1 must come from the control, not the duplicate anchor")
			}
		}
	}
	if seen != 1 {
		t.Errorf("CE1 classified %d times, want 1", seen)
	}
}

func TestClassify_AnchorCandidateNameCleanup(t *testing.T) {
	cands := byCode(classifyFixture(t))

	c, ok := cands["XRS"]
	if !ok {
		t.Fatal("anchor code XRS not classified")
	}
	if !c.FromAnchor {
		t.Error("XRS must be marked as anchor-sourced")
	}
	if c.Name != "Jantes RS Spyder" {
		t.Errorf("XRS name = %q, want boilerplate stripped", c.Name)
	}
	if c.Type != models.TypeWheel {
		t.Errorf("XRS type = %s, want wheel", c.Type)
	}
}

func TestClassify_SummarySectionSkipped(t *testing.T) {
	if _, ok := byCode(classifyFixture(t))["ZZ9"]; ok {
		t.Error("summary-section code ZZ9 must not be classified")
	}
}

func TestClassify_SubCategoryStaysInSection(t *testing.T) {
	// CE1 sits in the wheel section which has no h3; the h3 headings of
	// the previous section must not bleed in.
	c := byCode(classifyFixture(t))["CE1"]
	if c == nil {
		t.Fatal("CE1 not classified")
	}
	if c.SubCategory != "" {
		t.Errorf("CE1 sub-category = %q, want empty", c.SubCategory)
	}
}

func TestClassify_DisplayOrderMonotonic(t *testing.T) {
	cands := classifyFixture(t)
	if len(cands) < 2 {
		t.Fatalf("got %d candidates", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].DisplayOrder <= cands[i-1].DisplayOrder {
			t.Fatalf("display order not strictly increasing at %d", i)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	a := classifyFixture(t)
	b := classifyFixture(t)
	if len(a) != len(b) {
		t.Fatalf("runs differ in size: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Type != b[i].Type || a[i].Name != b[i].Name {
			t.Errorf("candidate %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSeenCodes_SharedAcrossCalls(t *testing.T) {
	seen := NewSeenCodes()
	if !seen.Add("CE1") {
		t.Error("first add must report new")
	}
	if seen.Add("CE1") {
		t.Error("second add must report duplicate")
	}

	snap, err := dom.Parse(fixturePage)
	if err != nil {
		t.Fatal(err)
	}
	cands := Classify(snap, seen)
	for _, c := range cands {
		if c.Code == "CE1" {
			t.Error("pre-seeded code CE1 must be skipped by Classify")
		}
	}
	if seen.Len() < 3 {
		t.Errorf("accumulator should carry every classified code, got %d", seen.Len())
	}
}

func TestCodeFromHref_Shapes(t *testing.T) {
	cases := []struct{ href, want string }{
		{"/fr-FR/options/CE1/", "CE1"},
		{"/fr-FR/option/0Q", "0Q"},
		{"/configure?option=xsc", "XSC"},
		{"/configure?OptionCode=CE1", "CE1"},
		{"/configure?code=ab12", "AB12"},
		{"/fr-FR/options/toolongcode/", ""},
		{"/fr-FR/models/911", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CodeFromHref(c.href); got != c.want {
			t.Errorf("CodeFromHref(%q) = %q, want %q", c.href, got, c.want)
		}
	}
}

func TestBuildExclusiveIndex_BadgeAttribution(t *testing.T) {
	page := `
<body>
<section>
  <h2>Jantes</h2>
  <div>
    <span>Jantes Exclusive Design</span>
    <span>Porsche Exclusive Manufaktur</span>
    <input type="radio" value="XRD" aria-label="XRD">
  </div>
  <div>
    <input type="radio" value="CE1" aria-label="Jantes Carrera S">
  </div>
</section>
</body>`
	snap, err := dom.Parse(page)
	if err != nil {
		t.Fatal(err)
	}
	idx := BuildExclusiveIndex(snap)

	name, ok := idx["XRD"]
	if !ok {
		t.Fatal("badge not attributed to XRD")
	}
	if name != "Jantes Exclusive Design" {
		t.Errorf("badge-adjacent name = %q", name)
	}
	if _, ok := idx["CE1"]; ok {
		t.Error("CE1 carries no badge")
	}
}

func TestCleanName_Boilerplate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Voir plus d'informations sur : Jantes RS Spyder", "Jantes RS Spyder"},
		{"En savoir plus sur Pack Sport Chrono", "Pack Sport Chrono"},
		{"  Blanc   Carrara  ", "Blanc Carrara"},
		{"Jantes Carrera S", "Jantes Carrera S"},
	}
	for _, c := range cases {
		if got := CleanName(c.in); got != c.want {
			t.Errorf("CleanName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassifyHeading_Vocabulary(t *testing.T) {
	cases := []struct {
		heading string
		kind    models.OptionType
		skip    bool
	}{
		{"Teintes extérieures", models.TypeColorExt, false},
		{"Couleurs intérieures", models.TypeColorInt, false},
		{"Jantes", models.TypeWheel, false},
		{"Sièges", models.TypeSeat, false},
		{"Packs et équipements", models.TypePack, false},
		{"Capote", models.TypeHood, false},
		{"Récapitulatif", models.TypeOption, true},
		{"Éclairage", models.TypeOption, false},
	}
	for _, c := range cases {
		kind, skip := classifyHeading(c.heading)
		if kind != c.kind || skip != c.skip {
			t.Errorf("classifyHeading(%q) = (%s, %v), want (%s, %v)", c.heading, kind, skip, c.kind, c.skip)
		}
	}
}
