package validation

import "regexp"

// Display identifiers are count-based: LOT-001, CR-001.
var (
	lotIDRe    = regexp.MustCompile(`^LOT-\d{3,}$`)
	creditIDRe = regexp.MustCompile(`^CR-\d{3,}$`)
)

func IsValidLotID(id string) bool {
	return lotIDRe.MatchString(id)
}

func IsValidCreditID(id string) bool {
	return creditIDRe.MatchString(id)
}

// allowedEvidenceMimes is the set of document types accepted as lot evidence.
var allowedEvidenceMimes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"text/csv":        true,
}

// IsAllowedEvidenceMime returns true if the MIME type is accepted for evidence uploads.
func IsAllowedEvidenceMime(mime string) bool {
	return allowedEvidenceMimes[mime]
}
