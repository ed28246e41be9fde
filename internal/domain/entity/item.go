package entity

// Item экземпляр предмета. Модули ссылаются на родителя через ParentID и SlotID.
type Item struct {
	ID       string `json:"id"`
	Tpl      string `json:"tpl"`
	ParentID string `json:"parent_id,omitempty"`
	SlotID   string `json:"slot_id,omitempty"`
	Upd      *Upd   `json:"upd,omitempty"`
}

// Upd изменяемое состояние предмета.
type Upd struct {
	StackObjectsCount     int         `json:"stack_objects_count,omitempty"`
	UnlimitedCount        bool        `json:"unlimited_count,omitempty"`
	BuyRestrictionMax     int         `json:"buy_restriction_max,omitempty"`
	BuyRestrictionCurrent int         `json:"buy_restriction_current,omitempty"`
	Repairable            *Repairable `json:"repairable,omitempty"`
	MedKit                *MedKit     `json:"med_kit,omitempty"`
	Key                   *KeyUsage   `json:"key,omitempty"`
	FoodDrink             *FoodDrink  `json:"food_drink,omitempty"`
	RepairKit             *RepairKit  `json:"repair_kit,omitempty"`
	Resource              *Resource   `json:"resource,omitempty"`
}

type Repairable struct {
	Durability    float64 `json:"durability"`
	MaxDurability float64 `json:"max_durability"`
}

type MedKit struct {
	HpResource float64 `json:"hp_resource"`
}

type KeyUsage struct {
	NumberOfUsages int `json:"number_of_usages"`
}

type FoodDrink struct {
	HpPercent float64 `json:"hp_percent"`
}

type RepairKit struct {
	Resource float64 `json:"resource"`
}

type Resource struct {
	Value         float64 `json:"value"`
	UnitsConsumed float64 `json:"units_consumed"`
}

// Stack возвращает размер стака как есть. Предмет без Upd считается одиночным.
func (i Item) Stack() int {
	if i.Upd == nil {
		return 1
	}

	return i.Upd.StackObjectsCount
}

// Clone делает глубокую копию, включая Upd.
func (i Item) Clone() Item {
	if i.Upd != nil {
		u := i.Upd.clone()
		i.Upd = &u
	}

	return i
}

func (u Upd) clone() Upd {
	if u.Repairable != nil {
		v := *u.Repairable
		u.Repairable = &v
	}

	if u.MedKit != nil {
		v := *u.MedKit
		u.MedKit = &v
	}

	if u.Key != nil {
		v := *u.Key
		u.Key = &v
	}

	if u.FoodDrink != nil {
		v := *u.FoodDrink
		u.FoodDrink = &v
	}

	if u.RepairKit != nil {
		v := *u.RepairKit
		u.RepairKit = &v
	}

	if u.Resource != nil {
		v := *u.Resource
		u.Resource = &v
	}

	return u
}

// CloneItems копирует набор предметов.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}

	out := make([]Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}

	return out
}

// ChildrenOf возвращает предмет с идентификатором rootID и всех его потомков.
// Корень идёт первым.
func ChildrenOf(items []Item, rootID string) []Item {
	var out []Item

	for _, it := range items {
		if it.ID == rootID {
			out = append(out, it)
			break
		}
	}

	if len(out) == 0 {
		return nil
	}

	for i := 0; i < len(out); i++ {
		for _, it := range items {
			if it.ParentID == out[i].ID {
				out = append(out, it)
			}
		}
	}

	return out
}
