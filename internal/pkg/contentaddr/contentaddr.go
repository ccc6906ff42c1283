package contentaddr

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ForFile returns the opaque content address recorded for an uploaded
// evidence file. The nonce keeps addresses distinct for identical descriptors
// (same file uploaded twice is two evidence entries).
func ForFile(name, mimeType string, sizeBytes int64, nonce string) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", name, mimeType, sizeBytes, nonce)))
	return "cid-" + hex.EncodeToString(sum[:])
}

// TxHash returns the transaction reference recorded on a paid installment.
func TxHash(creditID string, number int, paidAt time.Time, nonce string) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%s", creditID, number, paidAt.UnixNano(), nonce)))
	return "0x" + hex.EncodeToString(sum[:])
}
