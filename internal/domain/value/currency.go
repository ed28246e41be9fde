package value

import "fmt"

// Currency денежная единица рынка. Значение совпадает с кодом валюты.
type Currency string

const (
	RUB Currency = "RUB"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

const (
	TplRoubles = "5449016a4bdc2d6f028b456f"
	TplDollars = "5696686a4bdc2da3298b456a"
	TplEuros   = "569668774bdc2da2298b4568"
)

// Currencies возвращает валюты в порядке их номеров в фильтре поиска.
func Currencies() []Currency {
	return []Currency{RUB, USD, EUR}
}

// Tpl возвращает шаблон предмета, который представляет валюту.
func (c Currency) Tpl() string {
	switch c {
	case RUB:
		return TplRoubles
	case USD:
		return TplDollars
	case EUR:
		return TplEuros
	default:
		return ""
	}
}

func (c Currency) Valid() bool {
	return c.Tpl() != ""
}

func (c Currency) String() string {
	return string(c)
}

// CurrencyFromTpl определяет валюту по шаблону предмета.
func CurrencyFromTpl(tpl string) (Currency, bool) {
	switch tpl {
	case TplRoubles:
		return RUB, true
	case TplDollars:
		return USD, true
	case TplEuros:
		return EUR, true
	default:
		return "", false
	}
}

// IsMoney проверяет, является ли шаблон валютой.
func IsMoney(tpl string) bool {
	_, ok := CurrencyFromTpl(tpl)
	return ok
}

// CurrencyFromFilter переводит номер валюты из фильтра поиска (1 RUB, 2 USD, 3 EUR).
// 0 означает любую валюту.
func CurrencyFromFilter(n int) (Currency, bool, error) {
	switch n {
	case 0:
		return "", false, nil
	case 1:
		return RUB, true, nil
	case 2:
		return USD, true, nil
	case 3:
		return EUR, true, nil
	default:
		return "", false, fmt.Errorf("unknown currency filter %d", n)
	}
}
