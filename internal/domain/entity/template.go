package entity

// Template запись каталога предметов.
type Template struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Parent string        `json:"parent"`
	Type   string        `json:"type"`
	Props  TemplateProps `json:"props"`
}

const TemplateTypeItem = "Item"

type TemplateProps struct {
	StackMaxSize         int     `json:"stack_max_size"`
	MaxDurability        float64 `json:"max_durability"`
	Durability           float64 `json:"durability"`
	MaxHpResource        float64 `json:"max_hp_resource"`
	MaxResource          float64 `json:"max_resource"`
	MaxRepairResource    float64 `json:"max_repair_resource"`
	MaximumNumberOfUsage int     `json:"maximum_number_of_usage"`
	CanSellOnRagfair     bool    `json:"can_sell_on_ragfair"`
	QuestItem            bool    `json:"quest_item"`
	// RagFairCommissionModifier множитель комиссии рынка, 0 означает 1.
	RagFairCommissionModifier float64 `json:"ragfair_commission_modifier"`
	// Compatible шаблоны, которые ставятся в слоты или патронник предмета.
	Compatible []string `json:"compatible,omitempty"`
}

func (t Template) IsItem() bool {
	return t.Type == TemplateTypeItem
}

func (t Template) Stackable() bool {
	return t.Props.StackMaxSize > 1
}

// Preset готовая сборка, например оружие с заводскими модулями.
// Encyclopedia указывает шаблон корневого предмета.
type Preset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Encyclopedia string `json:"encyclopedia"`
	Default      bool   `json:"default"`
	Items        []Item `json:"items"`
}
