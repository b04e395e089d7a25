package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

// GenerateCaseCode builds the human-readable case identifier used in external
// messages, e.g. CASE-1718000000000-4X9K2M7QZ.
func GenerateCaseCode() string {
	suffix := strings.ToUpper(GenerateRandomString(CaseCodeSuffixLength))
	return fmt.Sprintf("%s-%d-%s", CaseCodePrefix, time.Now().UnixMilli(), suffix)
}
