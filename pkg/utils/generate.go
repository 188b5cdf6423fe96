package utils

import (
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

// GenerateBookingReference creates a human readable booking code.
// Format: BUS-YYYYMMDD-XXXXXXXX
func GenerateBookingReference(now time.Time) string {
	suffix := strings.ToUpper(shortuuid.New())
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return "BUS-" + now.Format("20060102") + "-" + suffix
}
