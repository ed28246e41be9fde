package value

// SortType поле сортировки выдачи поиска. Номера совпадают с клиентскими.
type SortType int

const (
	SortByID     SortType = 0
	SortByBarter SortType = 2
	SortByRating SortType = 3
	SortByTitle  SortType = 4
	SortByPrice  SortType = 5
	SortByExpiry SortType = 6
)

func (s SortType) Valid() bool {
	switch s {
	case SortByID, SortByBarter, SortByRating, SortByTitle, SortByPrice, SortByExpiry:
		return true
	default:
		return false
	}
}

type SortDirection int

const (
	SortAsc  SortDirection = 0
	SortDesc SortDirection = 1
)
