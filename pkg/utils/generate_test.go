package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingReference(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ref := GenerateBookingReference(now)

	assert.True(t, strings.HasPrefix(ref, "BUS-20260314-"), ref)
	assert.Len(t, ref, len("BUS-20260314-")+8)
	assert.Equal(t, strings.ToUpper(ref), ref)
	assert.NotEqual(t, ref, GenerateBookingReference(now))
}
