// Package device derives a stable device fingerprint for fraud signalling.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"nagrik/pkg/requestcontext"
)

// ComputeFingerprint hashes coarse User-Agent attributes into a stable token.
// Note: does NOT include the IP address (too volatile; IP feeds risk scoring separately).
func ComputeFingerprint(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)
	browser, version := ua.Browser()

	majorVersion := "unknown"
	if version != "" {
		parts := strings.Split(version, ".")
		if len(parts) > 0 && parts[0] != "" {
			majorVersion = parts[0]
		}
	}

	os := ua.OS()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	os = strings.ToLower(strings.TrimSpace(os))
	if os == "" {
		os = "unknown"
	}

	data := fmt.Sprintf("%s|%s|%s|%s", browser, majorVersion, os, platform)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Fingerprint pre-computes the device fingerprint from the User-Agent already
// captured by the metadata middleware and injects it into the context.
// Register after metadata.Middleware.
func Fingerprint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			ctx = requestcontext.WithDeviceFingerprint(ctx, ComputeFingerprint(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
