package inspection

import (
	"encoding/json"
	"strings"
)

// rawPart is the loosely-typed shape the model returns for one part. Every
// field is optional; anything missing or malformed is defaulted during
// assembly so upstream shape is never trusted.
type rawPart struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Severity       string   `json:"severity"`
	VisualEvidence string   `json:"visual_evidence"`
	Notes          string   `json:"notes"`
	Confidence     *float64 `json:"confidence"`
}

// AssembleParts merges a raw model analysis against the canonical catalog and
// always yields exactly CatalogSize parts in catalog order. Parts the model
// did not report come back NOT_VISIBLE with the catalog name and nothing else
// set. Unknown extra codes in the raw analysis are dropped.
func AssembleParts(raw json.RawMessage) []Part {
	byCode := make(map[PartCode]rawPart)
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		for _, e := range elems {
			var rp rawPart
			if err := json.Unmarshal(e, &rp); err != nil {
				continue
			}
			code := PartCode(strings.ToUpper(strings.TrimSpace(rp.Code)))
			if _, dup := byCode[code]; code != "" && !dup {
				byCode[code] = rp
			}
		}
	}

	parts := make([]Part, 0, CatalogSize)
	for _, def := range Catalog {
		rp, ok := byCode[def.Code]
		if !ok {
			parts = append(parts, Part{Code: def.Code, Name: def.Name, Status: StatusNotVisible})
			continue
		}
		p := Part{
			Code:           def.Code,
			Name:           def.Name,
			Status:         normalizeStatus(rp.Status),
			Severity:       normalizeSeverity(rp.Severity),
			VisualEvidence: strings.TrimSpace(rp.VisualEvidence),
			Confidence:     clampConfidence(rp.Confidence),
		}
		if name := strings.TrimSpace(rp.Name); name != "" {
			p.Name = name
		}
		if p.VisualEvidence == "" {
			p.VisualEvidence = strings.TrimSpace(rp.Notes)
		}
		parts = append(parts, p)
	}
	return parts
}

// HealthScore counts GOOD parts, 0..CatalogSize. Used directly as a
// "good parts out of 27" figure, not a weighted score.
func HealthScore(parts []Part) int {
	score := 0
	for _, p := range parts {
		if p.Status == StatusGood {
			score++
		}
	}
	return score
}

func normalizeStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusGood:
		return StatusGood
	case StatusDamaged:
		return StatusDamaged
	default:
		return StatusNotVisible
	}
}

func normalizeSeverity(s string) Severity {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityNone, SeverityMinor, SeverityModerate, SeveritySevere:
		return Severity(strings.ToUpper(strings.TrimSpace(s)))
	default:
		return ""
	}
}

func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}
