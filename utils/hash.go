package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// GetEncodedChecksum produces the data hash stored alongside each pdf
// document and its scan result. Matching hashes mean the stored report still
// describes the stored bytes; a remediation rewrite changes both.
func GetEncodedChecksum(data ...[]byte) string {
	allData := []byte{}
	for _, bytes := range data {
		allData = append(allData, bytes...)
	}

	sum := md5.Sum(allData)
	return hex.EncodeToString(sum[:])
}
