package ocr

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strings"

	id "nagrik/pkg/domain"
)

// Engine abstracts the vision OCR backend.
type Engine interface {
	AnalyzeDocument(ctx context.Context, image []byte) (*Analysis, error)
}

// Adapter drives the engine and applies per-document-type field extraction.
type Adapter struct {
	engine Engine
	logger *slog.Logger
}

type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// NewAdapter constructs an Adapter over the given engine.
func NewAdapter(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extract runs OCR and field extraction. It never fails: an engine error is
// logged and degrades to an empty extraction with zero confidence, so the
// pipeline always has a result to score.
func (a *Adapter) Extract(ctx context.Context, documentType id.DocumentType, image []byte) *Extraction {
	analysis, err := a.engine.AnalyzeDocument(ctx, image)
	if err != nil {
		a.logger.ErrorContext(ctx, "ocr engine failed, continuing with empty extraction",
			slog.String("document_type", documentType.String()),
			slog.String("error", err.Error()))
		return &Extraction{}
	}
	return BuildExtraction(documentType, analysis)
}

// BuildExtraction converts an engine analysis into per-document-type fields.
// Field resolution order: labeled key/value lookup, then regex over the raw
// text, then positional heuristics.
func BuildExtraction(documentType id.DocumentType, analysis *Analysis) *Extraction {
	if analysis == nil {
		return &Extraction{}
	}

	ex := &Extraction{
		RawText:    joinLines(analysis.Lines),
		Confidence: averageConfidence(analysis.Lines),
	}

	switch documentType {
	case id.DocumentAadhaar:
		extractAadhaar(ex, analysis)
	case id.DocumentPAN:
		extractPAN(ex, analysis)
	case id.DocumentBankPassbook:
		extractPassbook(ex, analysis)
	case id.DocumentIncomeCertificate:
		extractIncomeCertificate(ex, analysis)
	}
	return ex
}

func joinLines(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, "\n")
}

func averageConfidence(lines []Line) int {
	if len(lines) == 0 {
		return 0
	}
	sum := 0.0
	for _, l := range lines {
		sum += l.Confidence
	}
	return int(math.Round(sum / float64(len(lines))))
}

// Label variants observed on real documents, including Hindi labels printed
// alongside the English ones.
var (
	nameLabels      = []string{"name", "नाम", "account holder", "account holder name", "customer name", "holder name", "applicant name"}
	dobLabels       = []string{"dob", "date of birth", "birth date", "जन्म तिथि", "जन्म तारीख"}
	genderLabels    = []string{"gender", "sex", "लिंग"}
	fatherLabels    = []string{"father's name", "fathers name", "father name", "पिता का नाम"}
	accountLabels   = []string{"account number", "account no", "a/c no", "a/c number", "acc no", "खाता संख्या"}
	ifscLabels      = []string{"ifsc", "ifsc code", "ifs code"}
	branchLabels    = []string{"branch", "branch name", "शाखा"}
	incomeLabels    = []string{"annual income", "income", "total income", "वार्षिक आय", "आय"}
	authorityLabels = []string{"issuing authority", "issued by", "authority", "जारीकर्ता"}
	issueDateLabels = []string{"date of issue", "issue date", "issued on", "date", "जारी तिथि"}
	certNoLabels    = []string{"certificate number", "certificate no", "cert no", "प्रमाण पत्र संख्या"}
)

var (
	aadhaarNumberPattern = regexp.MustCompile(`\b(\d{4})\s?(\d{4})\s?(\d{4})\b`)
	panNumberPattern     = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	ifscCodePattern      = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	datePattern          = regexp.MustCompile(`\b(\d{2}[/-]\d{2}[/-]\d{4}|\d{4}-\d{2}-\d{2})\b`)
	genderPattern        = regexp.MustCompile(`(?i)\b(male|female|transgender|पुरुष|महिला)\b`)
	accountInTextPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	currencyPattern      = regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([\d,]+(?:\.\d{1,2})?)`)
	certNumberPattern    = regexp.MustCompile(`(?i)(?:certificate|cert\.?)\s*(?:no\.?|number)\s*[:\-]?\s*([A-Z0-9/\-]{3,})`)
)

// knownBanks are substrings matched case-insensitively against the raw text
// to recover the bank name from a passbook header.
var knownBanks = []string{
	"state bank of india", "punjab national bank", "bank of baroda",
	"union bank of india", "canara bank", "bank of india", "indian bank",
	"central bank of india", "hdfc bank", "icici bank", "axis bank",
	"kotak mahindra bank", "yes bank", "idbi bank", "indusind bank",
}

// revenueAuthorityTitles are officer titles that identify the issuing
// authority on an income certificate.
var revenueAuthorityTitles = []string{
	"tehsildar", "naib tehsildar", "district magistrate", "collector",
	"sub-divisional magistrate", "sdm", "revenue officer", "mamlatdar",
	"circle officer", "block development officer",
}

// issuerHeaders mark official document headers; the line after one is the
// best positional guess for the holder's name.
var issuerHeaders = []string{
	"government of india", "unique identification authority",
	"income tax department", "govt. of india", "govt of india",
}

func extractAadhaar(ex *Extraction, analysis *Analysis) {
	ex.Name = firstOf(
		lookupLabel(analysis.KeyValues, nameLabels),
		nameAfterIssuerHeader(analysis.Lines),
	)
	ex.DateOfBirth = firstOf(
		lookupLabel(analysis.KeyValues, dobLabels),
		datePattern.FindString(ex.RawText),
	)
	if m := aadhaarNumberPattern.FindStringSubmatch(ex.RawText); m != nil {
		ex.DocumentNumber = m[1] + m[2] + m[3]
	}
	ex.Gender = firstOf(
		lookupLabel(analysis.KeyValues, genderLabels),
		genderPattern.FindString(ex.RawText),
	)
}

func extractPAN(ex *Extraction, analysis *Analysis) {
	ex.DocumentNumber = panNumberPattern.FindString(strings.ToUpper(ex.RawText))
	ex.Name = firstOf(
		lookupLabel(analysis.KeyValues, nameLabels),
		nameAfterIssuerHeader(analysis.Lines),
	)
	ex.FatherName = lookupLabel(analysis.KeyValues, fatherLabels)
	ex.DateOfBirth = firstOf(
		lookupLabel(analysis.KeyValues, dobLabels),
		datePattern.FindString(ex.RawText),
	)
}

func extractPassbook(ex *Extraction, analysis *Analysis) {
	ex.Name = lookupLabel(analysis.KeyValues, nameLabels)
	ex.AccountNumber = firstOf(
		digitsIn(lookupLabel(analysis.KeyValues, accountLabels)),
		accountInTextPattern.FindString(ex.RawText),
	)
	ex.IFSCCode = firstOf(
		strings.ToUpper(lookupLabel(analysis.KeyValues, ifscLabels)),
		ifscCodePattern.FindString(strings.ToUpper(ex.RawText)),
	)
	ex.BankName = matchKnown(ex.RawText, knownBanks)
	ex.Branch = lookupLabel(analysis.KeyValues, branchLabels)
}

func extractIncomeCertificate(ex *Extraction, analysis *Analysis) {
	ex.Name = lookupLabel(analysis.KeyValues, nameLabels)
	ex.IncomeAmount = firstOf(
		currencyAmount(lookupLabel(analysis.KeyValues, incomeLabels)),
		currencyAmount(ex.RawText),
	)
	ex.IssuingAuthority = firstOf(
		lookupLabel(analysis.KeyValues, authorityLabels),
		matchKnown(ex.RawText, revenueAuthorityTitles),
	)
	ex.DateIssued = firstOf(
		lookupLabel(analysis.KeyValues, issueDateLabels),
		datePattern.FindString(ex.RawText),
	)
	ex.CertificateNumber = lookupLabel(analysis.KeyValues, certNoLabels)
	if ex.CertificateNumber == "" {
		if m := certNumberPattern.FindStringSubmatch(ex.RawText); m != nil {
			ex.CertificateNumber = m[1]
		}
	}
}

// lookupLabel returns the first non-empty value under one of the label
// variants. Exact key matches win over substring matches so "name" does not
// resolve to the "father's name" field.
func lookupLabel(keyValues map[string]string, labels []string) string {
	for _, label := range labels {
		if value := strings.TrimSpace(keyValues[label]); value != "" {
			return value
		}
	}
	for _, label := range labels {
		for key, value := range keyValues {
			if strings.Contains(key, label) && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// nameAfterIssuerHeader returns the line following a recognized issuer
// header, skipping lines that are obviously not a person's name.
func nameAfterIssuerHeader(lines []Line) string {
	for i, l := range lines {
		lower := strings.ToLower(l.Text)
		for _, header := range issuerHeaders {
			if !strings.Contains(lower, header) {
				continue
			}
			for j := i + 1; j < len(lines) && j <= i+3; j++ {
				candidate := strings.TrimSpace(lines[j].Text)
				if looksLikeName(candidate) {
					return candidate
				}
			}
		}
	}
	return ""
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .']{2,60}$`)

func looksLikeName(s string) bool {
	if !namePattern.MatchString(s) {
		return false
	}
	lower := strings.ToLower(s)
	for _, header := range issuerHeaders {
		if strings.Contains(lower, header) {
			return false
		}
	}
	return !strings.Contains(lower, "card") && !strings.Contains(lower, "department")
}

func matchKnown(rawText string, known []string) string {
	lower := strings.ToLower(rawText)
	for _, k := range known {
		if strings.Contains(lower, k) {
			return k
		}
	}
	return ""
}

func currencyAmount(s string) string {
	if s == "" {
		return ""
	}
	if m := currencyPattern.FindStringSubmatch(s); m != nil {
		return strings.ReplaceAll(m[1], ",", "")
	}
	return ""
}

func digitsIn(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstOf(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}
