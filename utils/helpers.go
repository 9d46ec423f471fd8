/*
Package utils provides helper functions for the RSS feed tools.
*/
package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	return time.Now().Format("20060102150405") + "-" + RandomString(8)
}

// RandomString generates a random string of specified length
func RandomString(length int) string {
	var b strings.Builder
	for b.Len() < length {
		b.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return b.String()[:length]
}
