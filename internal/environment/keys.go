package environment

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type keyPhrase struct {
	canonical string
	alias     string
}

// KeyIndex resolves table keys and their aliases, and suggests the closest
// known key for a typo.
type KeyIndex struct {
	canonical map[string]bool
	phrases   []keyPhrase
}

func NewKeyIndex() *KeyIndex {
	return &KeyIndex{
		canonical: make(map[string]bool),
	}
}

func (k *KeyIndex) Register(canonical string, aliases ...string) {
	canonical = normaliseKey(canonical)
	if canonical == "" {
		return
	}
	if !k.canonical[canonical] {
		k.canonical[canonical] = true
		k.phrases = append(k.phrases, keyPhrase{canonical: canonical, alias: canonical})
	}
	for _, a := range aliases {
		n := normaliseKey(a)
		if n == "" || n == canonical {
			continue
		}
		k.phrases = append(k.phrases, keyPhrase{canonical: canonical, alias: n})
	}
}

// Resolve maps a key or alias to its canonical key. Matching is exact after
// normalisation; fuzzy matches are only offered through Suggest.
func (k *KeyIndex) Resolve(raw string) (string, bool) {
	n := normaliseKey(raw)
	if n == "" {
		return "", false
	}
	if k.canonical[n] {
		return n, true
	}
	for _, p := range k.phrases {
		if p.alias == n {
			return p.canonical, true
		}
	}
	return "", false
}

type keyCandidate struct {
	canonical string
	dist      int
}

// Suggest returns canonical keys within edit distance of raw, closest first.
func (k *KeyIndex) Suggest(raw string) []string {
	n := normaliseKey(raw)
	if len(n) < 2 {
		return nil
	}
	best := map[string]int{}
	for _, p := range k.phrases {
		dist := levenshtein.ComputeDistance(n, p.alias)
		if dist > levenshteinLimit(len(p.alias)) {
			if !strings.HasPrefix(p.alias, n) || len(n) < 3 {
				continue
			}
			dist = len(p.alias) - len(n)
		}
		if cur, ok := best[p.canonical]; !ok || dist < cur {
			best[p.canonical] = dist
		}
	}
	cands := make([]keyCandidate, 0, len(best))
	for c, d := range best {
		cands = append(cands, keyCandidate{canonical: c, dist: d})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].canonical < cands[j].canonical
		}
		return cands[i].dist < cands[j].dist
	})
	out := make([]string, 0, min(len(cands), 3))
	for _, c := range cands {
		out = append(out, c.canonical)
		if len(out) >= 3 {
			break
		}
	}
	return out
}

// Keys returns the canonical keys in sorted order.
func (k *KeyIndex) Keys() []string {
	out := make([]string, 0, len(k.canonical))
	for c := range k.canonical {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normaliseKey(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
