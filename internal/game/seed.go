package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewGalaxySeed generates a random galaxy seed using crypto/rand, for setups
// that did not pin one.
func NewGalaxySeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
