package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// matchConfidence is assigned per matched entity. The pattern matcher has no
// calibrated model behind it, so every hit gets the same fixed score.
const matchConfidence = 0.85

// Extraction is the structured claim data pulled from OCR text
type Extraction struct {
	ClaimType         string  `json:"claim_type,omitempty"`
	ClaimantName      string  `json:"claimant_name,omitempty"`
	Village           string  `json:"village,omitempty"`
	District          string  `json:"district,omitempty"`
	State             string  `json:"state,omitempty"`
	SurveyNumber      string  `json:"survey_number,omitempty"`
	AreaAcres         float64 `json:"area_acres,omitempty"`
	Coordinates       string  `json:"coordinates,omitempty"`
	CertificateNumber string  `json:"certificate_number,omitempty"`
	RecognitionDate   string  `json:"recognition_date,omitempty"`

	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

var entityPatterns = map[string]*regexp.Regexp{
	"claimant_name":      regexp.MustCompile(`(?i)(?:Claimant Name|Name):\s*([A-Za-z\s]+)`),
	"village":            regexp.MustCompile(`(?i)Village:\s*([A-Za-z\s]+)`),
	"district":           regexp.MustCompile(`(?i)District:\s*([A-Za-z\s]+)`),
	"state":              regexp.MustCompile(`(?i)State:\s*([A-Za-z\s]+)`),
	"survey_number":      regexp.MustCompile(`(?i)Survey Number:\s*([\d/]+)`),
	"area":               regexp.MustCompile(`(?i)Area:\s*([\d.]+)\s*acres`),
	"certificate_number": regexp.MustCompile(`(?i)Certificate Number:\s*([A-Za-z0-9/]+)`),
	"recognition_date":   regexp.MustCompile(`(?i)Date of Recognition:\s*([\d-]+)`),
}

var coordinatePattern = regexp.MustCompile(`([\d.]+°\s*[NS])[,\s]+([\d.]+°\s*[EW])`)

var claimTypePatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)\b(?:CFR|Community Forest Resource)\b`), "CFR"},
	{regexp.MustCompile(`(?i)\b(?:CR|Community Rights)\b`), "CR"},
	{regexp.MustCompile(`(?i)\b(?:IFR|Individual Forest Rights?)\b`), "IFR"},
}

// Extract pulls claim entities out of OCR text with line-anchored patterns.
// Missing entities are left zero; nothing here fails.
func Extract(text string) Extraction {
	ex := Extraction{ConfidenceScores: make(map[string]float64)}

	grab := func(key string) string {
		m := entityPatterns[key].FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		v := strings.TrimSpace(m[1])
		if v != "" {
			ex.ConfidenceScores[key] = matchConfidence
		}
		return v
	}

	ex.ClaimantName = firstLine(grab("claimant_name"))
	ex.Village = firstLine(grab("village"))
	ex.District = firstLine(grab("district"))
	ex.State = firstLine(grab("state"))
	ex.SurveyNumber = grab("survey_number")
	ex.CertificateNumber = grab("certificate_number")
	ex.RecognitionDate = grab("recognition_date")

	if raw := grab("area"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			ex.AreaAcres = f
		}
	}

	if m := coordinatePattern.FindStringSubmatch(text); m != nil {
		ex.Coordinates = strings.TrimSpace(m[1]) + ", " + strings.TrimSpace(m[2])
		ex.ConfidenceScores["coordinates"] = matchConfidence
	}

	for _, ct := range claimTypePatterns {
		if ct.re.MatchString(text) {
			ex.ClaimType = ct.label
			ex.ConfidenceScores["claim_type"] = matchConfidence
			break
		}
	}

	return ex
}

// firstLine trims a greedy [A-Za-z\s]+ capture at the first newline, so
// "Ramesh Kumar\nVillage" does not swallow the next label.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
