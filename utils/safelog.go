package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Safe logging: donor emails and wallet addresses are masked in production
// so they never land in hosted log storage.

var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production"

// MaskEmail keeps the first character and the domain: "a***@example.org".
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskWallet keeps the 0x prefix and the last 4 characters.
func MaskWallet(addr string) string {
	if !IsProduction {
		return addr
	}
	if len(addr) < 8 {
		return "***"
	}
	return addr[:2] + "..." + addr[len(addr)-4:]
}

// SafeLogf logs with fmt semantics; callers mask arguments themselves.
func SafeLogf(format string, args ...interface{}) {
	log.Printf("%s", fmt.Sprintf(format, args...))
}
