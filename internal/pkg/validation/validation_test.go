package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLotID(t *testing.T) {
	assert.True(t, IsValidLotID("LOT-001"))
	assert.True(t, IsValidLotID("LOT-1234"))
	assert.False(t, IsValidLotID("LOT-01"))
	assert.False(t, IsValidLotID("lot-001"))
	assert.False(t, IsValidLotID("CR-001"))
	assert.False(t, IsValidLotID("LOT-001x"))
	assert.False(t, IsValidLotID(""))
}

func TestIsValidCreditID(t *testing.T) {
	assert.True(t, IsValidCreditID("CR-001"))
	assert.False(t, IsValidCreditID("CR-1"))
	assert.False(t, IsValidCreditID("LOT-001"))
}

func TestIsAllowedEvidenceMime(t *testing.T) {
	assert.True(t, IsAllowedEvidenceMime("application/pdf"))
	assert.True(t, IsAllowedEvidenceMime("image/jpeg"))
	assert.True(t, IsAllowedEvidenceMime("text/csv"))
	assert.False(t, IsAllowedEvidenceMime("application/x-msdownload"))
	assert.False(t, IsAllowedEvidenceMime(""))
}
