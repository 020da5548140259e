package utils

import "testing"

func TestGetEncodedChecksum(t *testing.T) {
	sum := GetEncodedChecksum([]byte("hello "), []byte("world"))
	joined := GetEncodedChecksum([]byte("hello world"))
	if sum != joined {
		t.Errorf("checksum over split input %s differs from joined input %s", sum, joined)
	}
	if sum != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("unexpected checksum: %s", sum)
	}
}
