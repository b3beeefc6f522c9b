package match

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewVerificationID returns an identifier of the form VER-<unix-ms>-<suffix>.
// The millisecond timestamp keeps IDs roughly sortable by submission time and
// the random suffix keeps concurrent submissions distinct.
func NewVerificationID(now time.Time) string {
	var suffix [4]byte
	// rand.Read on crypto/rand never fails on supported platforms.
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("VER-%d-%s", now.UnixMilli(), hex.EncodeToString(suffix[:]))
}
