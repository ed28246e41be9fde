package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"flea_market/internal/domain/value"
)

// ConditionRule износ бот-лотов одного базового класса.
type ConditionRule struct {
	ChancePercent float64
	Min           float64
	Max           float64
}

// ParseConditionRule разбирает правило вида шанс/мин/макс, например 30/0.45/1.
func ParseConditionRule(raw string) (ConditionRule, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return ConditionRule{}, fmt.Errorf("condition rule %q: want chance/min/max", raw)
	}

	var v [3]float64

	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ConditionRule{}, fmt.Errorf("condition rule %q: %w", raw, err)
		}

		v[i] = f
	}

	r := ConditionRule{ChancePercent: v[0], Min: v[1], Max: v[2]}
	if r.ChancePercent < 0 || r.ChancePercent > 100 || r.Min < 0 || r.Min > r.Max || r.Max > 1 {
		return ConditionRule{}, fmt.Errorf("condition rule %q: out of range", raw)
	}

	return r, nil
}

func defaultConditionRules() map[string]string {
	return map[string]string{
		value.BaseClassWeapon:     "30/0.45/1",
		value.BaseClassArmor:      "25/0.5/1",
		value.BaseClassVest:       "25/0.5/1",
		value.BaseClassHeadwear:   "20/0.6/1",
		value.BaseClassMeds:       "10/0.6/1",
		value.BaseClassFoodDrink:  "10/0.6/1",
		value.BaseClassKey:        "10/0.3/1",
		value.BaseClassRepairKits: "20/0.5/1",
		value.BaseClassFuel:       "15/0.3/1",
	}
}

// Conditions разобранные правила износа. Normalize уже отбросил битые
// записи, поэтому ошибок здесь не бывает.
func (m Market) Conditions() map[string]ConditionRule {
	rules := make(map[string]ConditionRule, len(m.ConditionRules))

	for class, raw := range m.ConditionRules {
		if r, err := ParseConditionRule(raw); err == nil {
			rules[class] = r
		}
	}

	return rules
}

func (n *normalizer) conditionRules(rules *map[string]string) {
	for class, raw := range *rules {
		if _, err := ParseConditionRule(raw); err != nil {
			logger(n.ctx).Warn("market condition rule is invalid, skipping",
				slog.String("base_class", class),
				slog.Any("error", err),
			)

			delete(*rules, class)
			n.replaced++
		}
	}

	if len(*rules) > 0 {
		return
	}

	logger(n.ctx).Warn("market setting is not set, using default", slog.String("setting", "CONDITION_RULES"))

	*rules = defaultConditionRules()
	n.replaced++
}
