package models

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// NewID returns a 24 character hex identifier: 4 bytes of big-endian unix
// seconds followed by 8 random bytes, so ids sort roughly by creation time.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		panic("models: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}
