package scraper

import "testing"

func TestParseTechnicalData_TableRows(t *testing.T) {
	body := []byte(`
<table>
  <tr><th>Puissance maxi</th><td>394 ch</td></tr>
  <tr><th>Vitesse maximale</th><td>294 km/h</td></tr>
  <tr><td>incomplete</td></tr>
</table>`)
	got := parseTechnicalData(body)

	if len(got) != 2 {
		t.Fatalf("got %d entries: %v", len(got), got)
	}
	if got["Puissance maxi"] != "394 ch" || got["Vitesse maximale"] != "294 km/h" {
		t.Errorf("parsed = %v", got)
	}
}

func TestParseTechnicalData_DefinitionList(t *testing.T) {
	body := []byte(`
<dl>
  <dt>Cylindrée</dt><dd>2 981 cm³</dd>
  <dt>Transmission</dt><dd>PDK</dd>
</dl>`)
	got := parseTechnicalData(body)

	if got["Cylindrée"] != "2 981 cm³" || got["Transmission"] != "PDK" {
		t.Errorf("parsed = %v", got)
	}
}

func TestParseTechnicalData_EmptyBody(t *testing.T) {
	if got := parseTechnicalData([]byte("")); len(got) != 0 {
		t.Errorf("empty body parsed to %v", got)
	}
}

func TestParseStandardEquipment_OrderedAndDeduplicated(t *testing.T) {
	body := []byte(`
<ul>
  <li>Sièges sport</li>
  <li>Pack éclairage</li>
  <li>Sièges sport</li>
  <li>  </li>
</ul>
<nav><ul><li><ul><li>Accueil</li></ul></li></ul></nav>`)
	got := parseStandardEquipment(body)

	want := []string{"Sièges sport", "Pack éclairage", "Accueil"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseOptionNames_DataCodeAttributes(t *testing.T) {
	body := []byte(`
<div data-code="ce1">Carrera S Wheels</div>
<div data-code="0Q">Carrara White</div>
<div data-code="">unnamed</div>`)
	got := parseOptionNames(body)

	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got["CE1"] != "Carrera S Wheels" || got["0Q"] != "Carrara White" {
		t.Errorf("parsed = %v", got)
	}
}
