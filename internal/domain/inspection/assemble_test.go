package inspection

import (
	"encoding/json"
	"testing"
)

func TestAssemblePartsAlwaysFullCatalog(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty array", `[]`},
		{"not an array", `{"oops": true}`},
		{"garbage", `not json at all`},
		{"single part", `[{"code":"HOD","status":"DAMAGED"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := AssembleParts(json.RawMessage(tt.raw))
			if len(parts) != CatalogSize {
				t.Fatalf("len = %d, want %d", len(parts), CatalogSize)
			}
			for i, def := range Catalog {
				if parts[i].Code != def.Code {
					t.Errorf("parts[%d].Code = %s, want %s (catalog order)", i, parts[i].Code, def.Code)
				}
			}
		})
	}
}

func TestAssembleParts(t *testing.T) {
	raw := json.RawMessage(`[
		{"code":"HOD","name":"Hood","status":"DAMAGED","severity":"SEVERE","visual_evidence":"crumpled with paint transfer","confidence":0.9},
		{"code":"fbr","status":"good"},
		{"code":"GRL","status":"DAMAGED","severity":"catastrophic","notes":"broken slats","confidence":1.7},
		{"code":"XYZ","status":"GOOD"},
		{"code":"HOD","status":"GOOD"}
	]`)
	parts := AssembleParts(raw)
	byCode := make(map[PartCode]Part, len(parts))
	for _, p := range parts {
		byCode[p.Code] = p
	}

	hod := byCode[CodeHood]
	if hod.Status != StatusDamaged || hod.Severity != SeveritySevere {
		t.Errorf("HOD = %s/%s, want DAMAGED/SEVERE (first occurrence wins)", hod.Status, hod.Severity)
	}
	if hod.VisualEvidence != "crumpled with paint transfer" {
		t.Errorf("HOD evidence = %q", hod.VisualEvidence)
	}
	if hod.Confidence == nil || *hod.Confidence != 0.9 {
		t.Errorf("HOD confidence = %v, want 0.9", hod.Confidence)
	}

	if fbr := byCode[CodeFrontBumper]; fbr.Status != StatusGood {
		t.Errorf("FBR = %s, want GOOD (case-insensitive code and status)", fbr.Status)
	}

	grl := byCode[CodeGrill]
	if grl.Severity != "" {
		t.Errorf("GRL severity = %q, want empty for unknown value", grl.Severity)
	}
	if grl.VisualEvidence != "broken slats" {
		t.Errorf("GRL evidence = %q, want notes fallback", grl.VisualEvidence)
	}
	if grl.Confidence == nil || *grl.Confidence != 1 {
		t.Errorf("GRL confidence = %v, want clamped to 1", grl.Confidence)
	}

	// unreported parts default to NOT_VISIBLE with the catalog name
	eng := byCode[CodeEngine]
	if eng.Status != StatusNotVisible {
		t.Errorf("ENG = %s, want NOT_VISIBLE", eng.Status)
	}
	if eng.Name == "" {
		t.Error("ENG name not filled from catalog")
	}
	if eng.Confidence != nil {
		t.Errorf("ENG confidence = %v, want nil", eng.Confidence)
	}
}

func TestHealthScore(t *testing.T) {
	raw := json.RawMessage(`[{"code":"HOD","status":"DAMAGED","severity":"SEVERE","confidence":0.9}]`)
	parts := AssembleParts(raw)
	// one DAMAGED, 26 NOT_VISIBLE: nothing counts
	if got := HealthScore(parts); got != 0 {
		t.Errorf("HealthScore = %d, want 0", got)
	}

	all := make([]Part, 0, CatalogSize)
	for _, def := range Catalog {
		all = append(all, Part{Code: def.Code, Name: def.Name, Status: StatusGood})
	}
	if got := HealthScore(all); got != CatalogSize {
		t.Errorf("HealthScore = %d, want %d", got, CatalogSize)
	}
}

func TestLookupPart(t *testing.T) {
	def, ok := LookupPart(CodeHood)
	if !ok || def.Name != "Hood" {
		t.Errorf("LookupPart(HOD) = %+v, %v", def, ok)
	}
	if _, ok := LookupPart("XYZ"); ok {
		t.Error("LookupPart(XYZ) should not resolve")
	}
}
