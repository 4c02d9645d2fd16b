package stablemem

import (
	"encoding/binary"
	"fmt"
)

// KeySize is the width of an encoded identifier key.
const KeySize = 8

// EncodeKey renders an identifier as a big-endian key.
func EncodeKey(id uint64) []byte {
	key := make([]byte, KeySize)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// DecodeKey parses a key produced by EncodeKey.
func DecodeKey(key []byte) (uint64, error) {
	if len(key) != KeySize {
		return 0, fmt.Errorf("stable memory key has %d bytes, want %d", len(key), KeySize)
	}
	return binary.BigEndian.Uint64(key), nil
}
