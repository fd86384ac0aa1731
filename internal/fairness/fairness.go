package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"colorcrash/internal/domain"
)

// SeedBytes is the length of the raw server seed.
const SeedBytes = 32

// Range is an inclusive [Min, Max] slice of the 0-99 outcome space.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GenerateSeed returns a fresh hex-encoded server seed from crypto/rand.
func GenerateSeed() (string, error) {
	buf := make([]byte, SeedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashSeed computes the public commitment for a seed: its SHA-256 hex digest.
// Published at round creation, before the outcome is knowable.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Outcome derives the round's random number in [0,100) from the seed and the
// round id. The round id is fixed at commitment time, so the derivation is
// reproducible by anyone holding the revealed seed.
func Outcome(seed, roundID string) int {
	sum := sha256.Sum256([]byte(seed + ":" + roundID))
	return int(binary.BigEndian.Uint32(sum[:4]) % 100)
}

// ColorFor maps an outcome number onto the configured color ranges. Ranges
// must partition [0,100); config validation guarantees that.
func ColorFor(n int, ranges map[domain.Color]Range) (domain.Color, error) {
	for color, r := range ranges {
		if n >= r.Min && n <= r.Max {
			return color, nil
		}
	}
	return "", fmt.Errorf("outcome %d not covered by any color range", n)
}

// Result is a fully derived round outcome.
type Result struct {
	Number int
	Color  domain.Color
}

// Derive computes the outcome number and its color in one step.
func Derive(seed, roundID string, ranges map[domain.Color]Range) (Result, error) {
	n := Outcome(seed, roundID)
	color, err := ColorFor(n, ranges)
	if err != nil {
		return Result{}, err
	}
	return Result{Number: n, Color: color}, nil
}

// Verify recomputes the commitment hash and the outcome from the revealed
// seed and returns true only if both match the published claims. This is the
// player-facing trust check and uses nothing the server did not publish.
func Verify(seed, claimedHash, roundID string, claimedColor domain.Color, ranges map[domain.Color]Range) bool {
	if HashSeed(seed) != claimedHash {
		return false
	}
	res, err := Derive(seed, roundID, ranges)
	if err != nil {
		return false
	}
	return res.Color == claimedColor
}

// Probabilities renders each color's share of the outcome space as a
// percentage string, e.g. "40%".
func Probabilities(ranges map[domain.Color]Range) map[domain.Color]string {
	out := make(map[domain.Color]string, len(ranges))
	for color, r := range ranges {
		out[color] = fmt.Sprintf("%d%%", r.Max-r.Min+1)
	}
	return out
}
