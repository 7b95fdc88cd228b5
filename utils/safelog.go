// Safe logging helpers. In production, emails and money amounts are
// masked before they reach the logs.
package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
)

var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production"

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountRegex = regexp.MustCompile(`\b\d+\.\d{2}\b`)
)

// Mask redacts emails and decimal amounts from a log line in production.
func Mask(msg string) string {
	if !IsProduction {
		return msg
	}
	msg = emailRegex.ReplaceAllStringFunc(msg, func(email string) string {
		if len(email) < 3 {
			return "***"
		}
		return email[:2] + "***@***"
	})
	msg = amountRegex.ReplaceAllString(msg, "*.**")
	return msg
}

func SafeLogf(format string, args ...interface{}) {
	log.Print(Mask(fmt.Sprintf(format, args...)))
}
