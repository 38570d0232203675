package pricing

import (
	"testing"

	"github.com/LouisZerri/porsche-options-sub000/catalog"
	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// resolveAll classifies the page and resolves every candidate, returning
// results keyed by code.
func resolveAll(t *testing.T, page string, equipment []string) (map[string]Result, map[string]*catalog.Candidate) {
	t.Helper()
	snap, err := dom.Parse(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cands := catalog.Classify(snap, catalog.NewSeenCodes())
	env := NewEnv(snap, equipment)

	results := make(map[string]Result, len(cands))
	byCode := make(map[string]*catalog.Candidate, len(cands))
	for _, c := range cands {
		results[c.Code] = env.Resolve(c)
		byCode[c.Code] = c
	}
	return results, byCode
}

func TestResolve_ProximityPrice(t *testing.T) {
	page := `
<section>
  <h2>Jantes</h2>
  <div><label><input type="checkbox" value="CE1" aria-label="Jantes Carrera S 20/21 pouces"><span>2 690,00 €</span></label></div>
  <div><label><input type="checkbox" value="CE2" aria-label="Jantes Turbo"><span>3 200,00 €</span></label></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	r := results["CE1"]
	if !r.Resolved || r.Strategy != StrategyProximity {
		t.Fatalf("CE1 = %+v, want proximity-resolved", r)
	}
	if r.Price == nil || *r.Price != 2690.00 {
		t.Errorf("CE1 price = %v, want 2690", r.Price)
	}
	if r.Standard {
		t.Error("a priced option is not standard")
	}

	if r2 := results["CE2"]; r2.Price == nil || *r2.Price != 3200.00 {
		t.Errorf("CE2 price = %v, want 3200 (no cross-attribution)", r2.Price)
	}
}

func TestResolve_ProximityAbortsOnSiblingControls(t *testing.T) {
	// Both radios share every ancestor that holds the price, so the climb
	// aborts before attributing 5 000,00 € to either one.
	page := `
<section>
  <h2>Jantes</h2>
  <div>
    <input type="radio" value="W1" aria-label="Jante A">
    <input type="radio" value="W2" aria-label="Jante B">
    <span>5 000,00 €</span>
  </div>
</section>`
	results, _ := resolveAll(t, page, nil)

	for _, code := range []string{"W1", "W2"} {
		if results[code].Resolved {
			t.Errorf("%s resolved to %+v, want unresolved (ambiguous price)", code, results[code])
		}
	}
}

func TestResolve_ProximityDepthBound(t *testing.T) {
	page := `
<section>
  <h2>Jantes</h2>
  <span>9 999,00 €</span>
  <div><div><div><div><div>
    <input type="checkbox" value="XF1" aria-label="Jante lointaine">
  </div></div></div></div></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	if r := results["XF1"]; r.Resolved {
		t.Errorf("price beyond the climb bound must not be attributed, got %+v", r)
	}
}

func TestResolve_IncludedMarker(t *testing.T) {
	page := `
<section>
  <h2>Jantes</h2>
  <div><label><input type="checkbox" value="0Q" aria-label="Jantes Carrera"><span>De série</span></label></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	r := results["0Q"]
	if !r.Resolved || r.Strategy != StrategyIncluded {
		t.Fatalf("0Q = %+v, want included-resolved", r)
	}
	if r.Price == nil || *r.Price != 0 || !r.Standard {
		t.Errorf("included option must be standard at 0, got %+v", r)
	}
}

func TestResolve_NumberBeatsIncludedMarker(t *testing.T) {
	page := `
<section>
  <h2>Jantes</h2>
  <div><label><input type="checkbox" value="WP" aria-label="Jantes promo"><span>De série</span><span>500,00 €</span></label></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	r := results["WP"]
	if r.Strategy != StrategyProximity {
		t.Fatalf("a currency number outranks an included marker, got %+v", r)
	}
	if r.Price == nil || *r.Price != 500 || r.Standard {
		t.Errorf("WP = %+v, want 500, not standard", r)
	}
}

func TestResolve_SubSectionAggregate(t *testing.T) {
	page := `
<section>
  <h2>Teintes intérieures</h2>
  <div>
    <h3>Intérieur cuir</h3>
    <span>3 500,00 €</span>
    <div><input type="radio" value="IN1" aria-label="Noir"></div>
    <div><input type="radio" value="IN2" aria-label="Craie"></div>
  </div>
</section>`
	results, cands := resolveAll(t, page, nil)

	for _, code := range []string{"IN1", "IN2"} {
		r := results[code]
		if !r.Resolved || r.Strategy != StrategySubSection {
			t.Fatalf("%s = %+v, want subsection-resolved", code, r)
		}
		if r.Price == nil || *r.Price != 3500 {
			t.Errorf("%s price = %v, want 3500", code, r.Price)
		}
	}
	if cands["IN1"].Type != models.TypeColorInt {
		t.Fatalf("fixture must classify as interior color, got %s", cands["IN1"].Type)
	}
}

func TestResolve_SubSectionOnlyForInteriorColors(t *testing.T) {
	// Same aggregate layout, but in a wheel section: the strategy must
	// not apply and the options stay unresolved.
	page := `
<section>
  <h2>Jantes</h2>
  <div>
    <h3>Jantes 20 pouces</h3>
    <span>3 500,00 €</span>
    <div><input type="radio" value="J1" aria-label="Jante A"></div>
    <div><input type="radio" value="J2" aria-label="Jante B"></div>
  </div>
</section>`
	results, _ := resolveAll(t, page, nil)

	if r := results["J1"]; r.Resolved && r.Strategy == StrategySubSection {
		t.Errorf("sub-section aggregate is interior-color only, got %+v", r)
	}
}

func TestResolve_StandardEquipmentMatch(t *testing.T) {
	page := `
<section>
  <h2>Sièges</h2>
  <div><input type="radio" value="S1" aria-label="Sièges sport"></div>
</section>`
	equipment := []string{"Sièges Sport (4 voies)", "Pack éclairage"}
	results, _ := resolveAll(t, page, equipment)

	r := results["S1"]
	if !r.Resolved || r.Strategy != StrategyStdEquipment {
		t.Fatalf("S1 = %+v, want standard-equipment-resolved", r)
	}
	if !r.Standard || r.Price == nil || *r.Price != 0 {
		t.Errorf("equipment match must be standard at 0, got %+v", r)
	}
}

func TestResolve_ExplicitZeroBeatsEquipmentMatch(t *testing.T) {
	// An explicit "0,00 €" next to the control resolves through the
	// proximity search even when the name also appears in the
	// standard-equipment list. Later strategies never re-run.
	page := `
<section>
  <h2>Sièges</h2>
  <div><label><input type="radio" value="S1" aria-label="Sièges sport"><span>0,00 €</span></label></div>
</section>`
	results, _ := resolveAll(t, page, []string{"Sièges sport"})

	r := results["S1"]
	if !r.Resolved || r.Strategy != StrategyProximity {
		t.Fatalf("S1 = %+v, want proximity-resolved", r)
	}
	if r.Price == nil || *r.Price != 0 {
		t.Errorf("S1 price = %v, want explicit 0", r.Price)
	}
	if !r.Standard {
		t.Error("a zero-priced option is standard")
	}
}

func TestResolve_StandardEquipmentBeforePreselected(t *testing.T) {
	page := `
<section>
  <h2>Sièges</h2>
  <div><input type="radio" value="S1" aria-label="Sièges sport" checked></div>
</section>`
	results, _ := resolveAll(t, page, []string{"Sièges sport"})

	if r := results["S1"]; r.Strategy != StrategyStdEquipment {
		t.Errorf("equipment membership outranks the checked attribute, got %+v", r)
	}
}

func TestResolve_Preselected(t *testing.T) {
	page := `
<section>
  <h2>Sièges</h2>
  <div><input type="radio" value="S2" aria-label="Sièges confort" checked></div>
  <div><input type="radio" value="S3" aria-label="Sièges baquet"></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	r := results["S2"]
	if !r.Resolved || r.Strategy != StrategyPreselected {
		t.Fatalf("S2 = %+v, want preselected-resolved", r)
	}
	if !r.Standard {
		t.Error("a preselected control marks the standard choice")
	}

	if results["S3"].Resolved {
		t.Errorf("S3 has no signal and must stay unresolved, got %+v", results["S3"])
	}
}

func TestResolve_UnresolvedIsNotAnError(t *testing.T) {
	page := `
<section>
  <h2>Jantes</h2>
  <div><input type="checkbox" value="NX" aria-label="Jante mystère"></div>
</section>`
	results, _ := resolveAll(t, page, nil)

	r := results["NX"]
	if r.Resolved || r.Price != nil {
		t.Errorf("NX = %+v, want unresolved with nil price", r)
	}
}
