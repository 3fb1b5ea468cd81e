// Package ids generates entity identifiers for journal records.
package ids

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Monotonic entropy keeps ids generated within the same millisecond
	// lexicographically increasing, so ledger ids sort by creation time.
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string: millisecond timestamp plus random suffix.
// Uniqueness is probabilistic, not guaranteed; loaders drop duplicate
// ids first-wins.
func New() string {
	return At(time.Now().UTC())
}

// At returns a ULID string for the given timestamp.
func At(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		panic(err)
	}
	return id.String()
}
