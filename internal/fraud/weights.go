package fraud

import id "nagrik/pkg/domain"

// WeightTable tells the generative scorer how much each signal family should
// influence the assessment for a document type. Values are percentages and
// sum to 100.
type WeightTable struct {
	OCRMatch       int `json:"ocrMatch"`
	FaceSimilarity int `json:"faceSimilarity,omitempty"`
	Checksum       int `json:"checksum,omitempty"`
	TextLayout     int `json:"textAndLayoutConsistency"`
	Behavior       int `json:"submissionBehavior"`
}

// weightTables reflects that checksum-bearing documents lean on structural
// validity while passbooks and certificates lean on consistency signals.
var weightTables = map[id.DocumentType]WeightTable{
	id.DocumentAadhaar: {
		OCRMatch:       25,
		FaceSimilarity: 25,
		Checksum:       15,
		TextLayout:     20,
		Behavior:       15,
	},
	id.DocumentPAN: {
		OCRMatch:   30,
		Checksum:   20,
		TextLayout: 30,
		Behavior:   20,
	},
	id.DocumentBankPassbook: {
		OCRMatch:   30,
		TextLayout: 45,
		Behavior:   25,
	},
	id.DocumentIncomeCertificate: {
		OCRMatch:   30,
		TextLayout: 45,
		Behavior:   25,
	},
}

// WeightsFor returns the weighting table for a document type.
func WeightsFor(documentType id.DocumentType) WeightTable {
	if w, ok := weightTables[documentType]; ok {
		return w
	}
	return weightTables[id.DocumentBankPassbook]
}
