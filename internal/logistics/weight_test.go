package logistics

import (
	"math"
	"testing"

	"github.com/NocTempre/acks-caravan/internal/config"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestItemWeight(t *testing.T) {
	m := NewWeightModel(config.Default())
	tests := []struct {
		name string
		item Item
		want float64
	}{
		{name: "gear", item: Item{Type: ItemGear, Weight: 0.5, Quantity: 4}, want: 2},
		{name: "treasure", item: Item{Type: ItemTreasure, Weight: 1, Quantity: 1}, want: 1},
		{name: "money", item: Item{Type: ItemMoney, Weight: 1, Quantity: 3000}, want: 0},
		{name: "spell", item: Item{Type: ItemSpell, Weight: 1, Quantity: 1}, want: 0},
		{name: "negative quantity", item: Item{Type: ItemGear, Weight: 1, Quantity: -2}, want: 0},
		{name: "container", item: Item{Type: ItemContainer, Weight: 1, Quantity: 1, ContentsWeight: 10, ReductionFactor: 0.5}, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.ItemWeight(tt.item); !approx(got, tt.want) {
				t.Fatalf("expected %g stone, got %g", tt.want, got)
			}
		})
	}
}

func TestContainerReductionIsClamped(t *testing.T) {
	m := NewWeightModel(config.Default())
	over := Item{Type: ItemContainer, Weight: 1, ContentsWeight: 8, ReductionFactor: 1.5}
	if got := m.ContainerEffectiveWeight(over); !approx(got, 1) {
		t.Fatalf("expected reduction capped at 1, got %g", got)
	}
	under := Item{Type: ItemContainer, Weight: 1, ContentsWeight: 8, ReductionFactor: -1}
	if got := m.ContainerEffectiveWeight(under); !approx(got, 9) {
		t.Fatalf("expected reduction floored at 0, got %g", got)
	}
}

func TestCoinWeightRoundsUpToWholeSlots(t *testing.T) {
	m := NewWeightModel(config.Default())
	tests := []struct {
		coins int
		want  float64
	}{
		{0, 0},
		{-5, 0},
		{1, 1.0 / 6.0},
		{166, 1.0 / 6.0},
		{167, 2.0 / 6.0},
		{500, 0.5},
		{1000, 1},
		{1001, 7.0 / 6.0},
	}
	for _, tt := range tests {
		if got := m.CoinWeight(tt.coins); !approx(got, tt.want) {
			t.Fatalf("CoinWeight(%d): expected %g, got %g", tt.coins, tt.want, got)
		}
	}
}

func TestCarrierLoadPoolsCoinsAndSkipsStowedItems(t *testing.T) {
	m := NewWeightModel(config.Default())
	items := []Item{
		{ID: "sword", Type: ItemGear, Weight: 1, Quantity: 1},
		{ID: "pack", Type: ItemContainer, Weight: 1.0 / 6.0, Quantity: 1, ContentsWeight: 2},
		{ID: "rope", Type: ItemGear, Weight: 1, Quantity: 2, ContainedIn: "pack"},
		{ID: "gp", Type: ItemMoney, Quantity: 600},
		{ID: "sp", Type: ItemMoney, Quantity: 400},
	}
	want := 1 + (1.0/6.0 + 2) + 1
	if got := m.CarrierLoad(items); !approx(got, want) {
		t.Fatalf("expected load %g, got %g", want, got)
	}
}

func TestStrengthModifier(t *testing.T) {
	tests := map[int]int{3: -3, 4: -2, 5: -2, 6: -1, 8: -1, 9: 0, 12: 0, 13: 1, 15: 1, 16: 2, 17: 2, 18: 3, 19: 3}
	for score, want := range tests {
		if got := StrengthModifier(score); got != want {
			t.Fatalf("StrengthModifier(%d): expected %d, got %d", score, want, got)
		}
	}
}

func TestCarryLimit(t *testing.T) {
	m := NewWeightModel(config.Default())
	if got := m.CarryLimit(Carrier{Kind: KindCharacter, Strength: 18}); got != 23 {
		t.Fatalf("expected STR 18 limit 23, got %g", got)
	}
	if got := m.CarryLimit(Carrier{Kind: KindCharacter, Strength: 3}); got != 17 {
		t.Fatalf("expected STR 3 limit 17, got %g", got)
	}
	if got := m.CarryLimit(Carrier{Kind: KindMount, NormalLoad: 30, MaxLoad: 60}); got != 60 {
		t.Fatalf("expected explicit max load, got %g", got)
	}
	if got := m.CarryLimit(Carrier{Kind: KindDraft, NormalLoad: 40}); got != 80 {
		t.Fatalf("expected twice the normal load, got %g", got)
	}
}

func TestEncumbranceRateBands(t *testing.T) {
	m := NewWeightModel(config.Default())
	hero := Carrier{Kind: KindCharacter, Strength: 10}
	tests := []struct {
		load float64
		want float64
	}{
		{0, 24},
		{5, 24},
		{5.5, 18},
		{7, 18},
		{10, 12},
		{15, 6},
		{20, 6},
		{20.5, 0},
	}
	for _, tt := range tests {
		if got := m.EncumbranceRate(hero, tt.load); got != tt.want {
			t.Fatalf("load %g: expected %g mi/day, got %g", tt.load, tt.want, got)
		}
	}
}

func TestCreatureRateUsesExplicitDailyRate(t *testing.T) {
	m := NewWeightModel(config.Default())
	mule := Carrier{Kind: KindMount, NormalLoad: 20, MaxLoad: 40, DailyRate: 24}
	if got := m.EncumbranceRate(mule, 20); got != 24 {
		t.Fatalf("expected full rate at normal load, got %g", got)
	}
	if got := m.EncumbranceRate(mule, 30); got != 12 {
		t.Fatalf("expected half rate above normal load, got %g", got)
	}
	if got := m.EncumbranceRate(mule, 41); got != 0 {
		t.Fatalf("expected no movement over max load, got %g", got)
	}
}
