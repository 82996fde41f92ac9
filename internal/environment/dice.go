package environment

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"strings"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

// Dice is a parsed NdM expression with an optional flat modifier or
// multiplier, e.g. "2d6", "1d8+2", "4d6*10".
type Dice struct {
	Count      int
	Sides      int
	Modifier   int
	Multiplier int
}

func ParseDice(expr string) (Dice, error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expr), " ", ""))
	bad := func() (Dice, error) {
		return Dice{}, apperrors.New(apperrors.CodeInvalidConfig, fmt.Sprintf("invalid dice expression %q", expr))
	}
	if raw == "" {
		return bad()
	}
	d := Dice{Multiplier: 1}

	if i := strings.IndexAny(raw, "*x"); i >= 0 {
		m, err := strconv.Atoi(raw[i+1:])
		if err != nil || m <= 0 {
			return bad()
		}
		d.Multiplier = m
		raw = raw[:i]
	} else if i := strings.IndexAny(raw, "+-"); i >= 0 {
		m, err := strconv.Atoi(raw[i:])
		if err != nil {
			return bad()
		}
		d.Modifier = m
		raw = raw[:i]
	}

	count, sides, ok := strings.Cut(raw, "d")
	if !ok {
		return bad()
	}
	if count == "" {
		d.Count = 1
	} else {
		n, err := strconv.Atoi(count)
		if err != nil || n <= 0 {
			return bad()
		}
		d.Count = n
	}
	s, err := strconv.Atoi(sides)
	if err != nil || s <= 0 {
		return bad()
	}
	d.Sides = s
	return d, nil
}

func (d Dice) String() string {
	out := fmt.Sprintf("%dd%d", d.Count, d.Sides)
	switch {
	case d.Multiplier > 1:
		out += fmt.Sprintf("*%d", d.Multiplier)
	case d.Modifier > 0:
		out += fmt.Sprintf("+%d", d.Modifier)
	case d.Modifier < 0:
		out += fmt.Sprintf("%d", d.Modifier)
	}
	return out
}

func (d Dice) Min() int {
	return (d.Count + d.Modifier) * d.Multiplier
}

func (d Dice) Max() int {
	return (d.Count*d.Sides + d.Modifier) * d.Multiplier
}

func (d Dice) Roll(rng *rand.Rand) int {
	total := 0
	for i := 0; i < d.Count; i++ {
		total += rng.IntN(d.Sides) + 1
	}
	return (total + d.Modifier) * d.Multiplier
}

// SeededRNG returns a deterministic generator for reproducible rolls.
func SeededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic travel checks.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
