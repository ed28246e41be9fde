package offer

import (
	"maps"
	"math"
	"slices"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseclass(tpl, baseClass string) bool
}

// ConditionRule шанс износа и диапазон множителя для базового класса.
type ConditionRule struct {
	ChancePercent float64
	Min           float64
	Max           float64
}

// Conditioner достраивает и портит состояние предметов бот-лотов.
type Conditioner struct {
	catalog Catalog
	rules   map[string]ConditionRule
	order   []string
	rnd     *randx.Rand
}

func NewConditioner(catalog Catalog, rules map[string]ConditionRule, rnd *randx.Rand) *Conditioner {
	order := slices.Sorted(maps.Keys(rules))

	return &Conditioner{
		catalog: catalog,
		rules:   rules,
		order:   order,
		rnd:     rnd,
	}
}

// Apply заполняет отсутствующие поля состояния корня по шаблону и с шансом
// базового класса применяет износ.
func (c *Conditioner) Apply(items []entity.Item) {
	if len(items) == 0 {
		return
	}

	root := &items[0]

	t, ok := c.catalog.Template(root.Tpl)
	if !ok {
		return
	}

	if root.Upd == nil {
		root.Upd = &entity.Upd{StackObjectsCount: 1}
	}

	c.addMissing(root, t)

	baseClass, rule, ok := c.ruleFor(root.Tpl)
	if !ok || !c.rnd.Chance(rule.ChancePercent) {
		return
	}

	c.wear(root, t, baseClass, c.rnd.FloatRange(rule.Min, rule.Max))
}

func (c *Conditioner) addMissing(it *entity.Item, t entity.Template) {
	props := t.Props
	upd := it.Upd

	if upd.Repairable == nil && (props.MaxDurability > 0 || props.Durability > 0) {
		d := props.MaxDurability
		if d <= 0 {
			d = props.Durability
		}

		upd.Repairable = &entity.Repairable{Durability: d, MaxDurability: d}
	}

	if upd.MedKit == nil && props.MaxHpResource > 0 {
		upd.MedKit = &entity.MedKit{HpResource: props.MaxHpResource}
	}

	if upd.Key == nil && props.MaximumNumberOfUsage > 0 {
		upd.Key = &entity.KeyUsage{}
	}

	if upd.FoodDrink == nil && props.MaxResource > 1 && c.catalog.IsOfBaseclass(it.Tpl, value.BaseClassFoodDrink) {
		upd.FoodDrink = &entity.FoodDrink{HpPercent: props.MaxResource}
	}

	if upd.RepairKit == nil && props.MaxRepairResource > 0 {
		upd.RepairKit = &entity.RepairKit{Resource: props.MaxRepairResource}
	}
}

func (c *Conditioner) ruleFor(tpl string) (string, ConditionRule, bool) {
	for _, baseClass := range c.order {
		if c.catalog.IsOfBaseclass(tpl, baseClass) {
			return baseClass, c.rules[baseClass], true
		}
	}

	return "", ConditionRule{}, false
}

func (c *Conditioner) wear(it *entity.Item, t entity.Template, baseClass string, mult float64) {
	props := t.Props
	upd := it.Upd

	switch {
	case upd.Repairable != nil && isDurable(c.catalog, it.Tpl, baseClass):
		c.wearDurability(upd.Repairable, props, mult)

	case upd.MedKit != nil:
		upd.MedKit.HpResource = atLeastOne(math.Round(props.MaxHpResource * mult))

	case upd.Key != nil && props.MaximumNumberOfUsage > 1:
		upd.Key.NumberOfUsages = int(math.Round(float64(props.MaximumNumberOfUsage) * (1 - mult)))

	case upd.FoodDrink != nil:
		upd.FoodDrink.HpPercent = atLeastOne(math.Round(props.MaxResource * mult))

	case upd.RepairKit != nil:
		upd.RepairKit.Resource = atLeastOne(math.Round(props.MaxRepairResource * mult))

	case c.catalog.IsOfBaseclass(it.Tpl, value.BaseClassFuel) && props.MaxResource > 0:
		remaining := math.Round(props.MaxResource * mult)
		upd.Resource = &entity.Resource{Value: remaining, UnitsConsumed: props.MaxResource - remaining}
	}
}

// wearDurability текущая прочность от максимума шаблона, максимальная
// перебрасывается в пределах ±5 от текущей и зажимается между текущей и
// максимумом шаблона.
func (c *Conditioner) wearDurability(r *entity.Repairable, props entity.TemplateProps, mult float64) {
	templateMax := props.MaxDurability
	if templateMax <= 0 {
		templateMax = r.MaxDurability
	}

	current := atLeastOne(math.Round(templateMax * mult))
	newMax := math.Round(c.rnd.FloatRange(current-5, current+5))

	r.Durability = current
	r.MaxDurability = math.Min(math.Max(newMax, current), math.Max(templateMax, current))
}

func isDurable(catalog Catalog, tpl, baseClass string) bool {
	switch baseClass {
	case value.BaseClassWeapon, value.BaseClassArmor, value.BaseClassArmoredEquipment, value.BaseClassHeadwear, value.BaseClassVest:
		return true
	}

	return catalog.IsOfBaseclass(tpl, value.BaseClassWeapon) || catalog.IsOfBaseclass(tpl, value.BaseClassArmor)
}

func atLeastOne(v float64) float64 {
	if v < 1 {
		return 1
	}

	return v
}
