package logistics

import (
	"math"

	"github.com/NocTempre/acks-caravan/internal/config"
)

// WeightModel converts items and loads into stone and expedition rates.
// It holds no state beyond its tunables.
type WeightModel struct {
	Tunables config.Tunables
}

func NewWeightModel(t config.Tunables) WeightModel {
	t.ApplyDefaults()
	return WeightModel{Tunables: t}
}

// ItemWeight is the weight an item contributes where it lies. Money is
// weightless here; coins are converted in bulk by CoinWeight.
func (m WeightModel) ItemWeight(item Item) float64 {
	switch item.Type {
	case ItemMoney, ItemSpell, ItemAbility, ItemLanguage:
		return 0
	case ItemContainer:
		return m.ContainerEffectiveWeight(item)
	default:
		return max(0, item.Weight) * float64(max(0, item.Quantity))
	}
}

// ContainerEffectiveWeight is base + contents × (1 − reduction).
func (m WeightModel) ContainerEffectiveWeight(container Item) float64 {
	qty := max(1, container.Quantity)
	base := max(0, container.Weight) * float64(qty)
	reduction := clampFloat(container.ReductionFactor, 0, 1)
	return base + max(0, container.ContentsWeight)*(1-reduction)
}

// CoinWeight converts a coin count to stone. Every CoinsPerStone coins weigh
// one stone and a partial stack takes a whole encumbrance slot.
func (m WeightModel) CoinWeight(coins int) float64 {
	if coins <= 0 {
		return 0
	}
	slots := math.Ceil(float64(coins) * float64(m.Tunables.SlotsPerStone) / float64(m.Tunables.CoinsPerStone))
	return slots / float64(m.Tunables.SlotsPerStone)
}

// stowedWeight is the weight an item adds when packed by itself into a
// container or a cargo hold.
func (m WeightModel) stowedWeight(item Item) float64 {
	if item.Type == ItemMoney {
		return m.CoinWeight(item.Quantity)
	}
	return m.ItemWeight(item)
}

// CarrierLoad totals the items a carrier holds directly plus its loose coins.
// Items stowed in a container count through the container.
func (m WeightModel) CarrierLoad(items []Item) float64 {
	total := 0.0
	coins := 0
	for _, item := range items {
		if item.ContainedIn != "" {
			continue
		}
		if item.Type == ItemMoney {
			coins += max(0, item.Quantity)
			continue
		}
		total += m.ItemWeight(item)
	}
	return total + m.CoinWeight(coins)
}

// StrengthModifier follows the 3-18 attribute bonus table.
func StrengthModifier(score int) int {
	switch {
	case score <= 0:
		return 0
	case score <= 3:
		return -3
	case score <= 5:
		return -2
	case score <= 8:
		return -1
	case score <= 12:
		return 0
	case score <= 15:
		return 1
	case score <= 17:
		return 2
	default:
		return 3
	}
}

// CarryLimit is the most a carrier can bear before it cannot move.
func (m WeightModel) CarryLimit(c Carrier) float64 {
	switch c.Kind {
	case KindCharacter:
		return max(0, m.Tunables.BaseCarryLimit+float64(StrengthModifier(c.Strength)))
	default:
		if c.MaxLoad > 0 {
			return c.MaxLoad
		}
		if c.NormalLoad > 0 {
			return c.NormalLoad * 2
		}
		return m.Tunables.BaseCarryLimit
	}
}

// EncumbranceRate is the expedition rate (miles per day) a carrier manages
// under the given load.
func (m WeightModel) EncumbranceRate(c Carrier, load float64) float64 {
	limit := m.CarryLimit(c)
	if load > limit+1e-9 {
		return 0
	}
	if c.Kind != KindCharacter && c.DailyRate > 0 {
		normal := c.NormalLoad
		if normal <= 0 {
			normal = limit
		}
		if load <= normal+1e-9 {
			return c.DailyRate
		}
		return c.DailyRate / 2
	}
	for _, band := range m.Tunables.EncumbranceBands {
		if load <= band.MaxLoad+1e-9 {
			return band.DailyRate
		}
	}
	return m.Tunables.LimitRate
}

func (m WeightModel) bodyWeight(c Carrier) float64 {
	if c.BodyWeight > 0 {
		return c.BodyWeight
	}
	return m.Tunables.DefaultBodyWeight
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
