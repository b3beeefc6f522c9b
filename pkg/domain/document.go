package domain

// DocumentType identifies which KYC document a verification request carries.
type DocumentType string

const (
	DocumentAadhaar           DocumentType = "aadhaar"
	DocumentPAN               DocumentType = "pan"
	DocumentBankPassbook      DocumentType = "bank_passbook"
	DocumentIncomeCertificate DocumentType = "income_certificate"
)

// String returns the wire representation of the document type.
func (d DocumentType) String() string {
	return string(d)
}

// Valid reports whether the document type is one the pipeline handles.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentAadhaar, DocumentPAN, DocumentBankPassbook, DocumentIncomeCertificate:
		return true
	}
	return false
}
