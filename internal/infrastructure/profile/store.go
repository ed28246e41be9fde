package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/internal/domain/value"
	"flea_market/pkg/logx"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingItems      = errors.New("required items are missing")
)

type account struct {
	profile   entity.Profile
	wallet    map[value.Currency]int64
	inventory []entity.Item
}

// Store профили игроков в памяти: кошелёк, инвентарь и рейтинг.
// Заодно выполняет обмен при покупке лота.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account

	autoCreate      bool
	startingRoubles int64
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]*account)}
}

// WithAutoCreate заводит профиль при первом обращении с указанной суммой в рублях.
func (s *Store) WithAutoCreate(startingRoubles int64) *Store {
	s.autoCreate = true
	s.startingRoubles = startingRoubles

	return s
}

// Register добавляет или заменяет профиль.
func (s *Store) Register(p entity.Profile, roubles int64, items ...entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.TraderLoyalty == nil {
		p.TraderLoyalty = make(map[string]int)
	}

	s.accounts[p.ID] = &account{
		profile:   p,
		wallet:    map[value.Currency]int64{value.RUB: roubles},
		inventory: entity.CloneItems(items),
	}
}

// Balance остаток в валюте.
func (s *Store) Balance(id string, c value.Currency) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return 0
	}

	return a.wallet[c]
}

// Inventory копия инвентаря.
func (s *Store) Inventory(id string) []entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil
	}

	return entity.CloneItems(a.inventory)
}

func (s *Store) IsPlayer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.accounts[id]

	return ok
}

func (s *Store) Profile(ctx context.Context, id string) (entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return entity.Profile{}, err
	}

	p := a.profile
	p.TraderLoyalty = lo.Assign(a.profile.TraderLoyalty)

	return p, nil
}

func (s *Store) AddRating(ctx context.Context, id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return err
	}

	a.profile.Rating += delta
	a.profile.IsRatingGrowing = delta > 0

	return nil
}

func (s *Store) Charge(ctx context.Context, id string, roubles int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return err
	}

	if a.wallet[value.RUB] < roubles {
		return fmt.Errorf("charge %d: %w", roubles, ErrInsufficientFunds)
	}

	a.wallet[value.RUB] -= roubles

	return nil
}

// Credit выплата продавцу: валюта в кошелёк, предметы бартера в инвентарь.
func (s *Store) Credit(ctx context.Context, id string, reqs []entity.Requirement, times int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return err
	}

	for _, r := range reqs {
		amount := int64(math.Round(r.Count)) * int64(times)

		if c, ok := value.CurrencyFromTpl(r.Tpl); ok {
			a.wallet[c] += amount
			continue
		}

		for range amount {
			a.inventory = append(a.inventory, entity.Item{ID: xid.New().String(), Tpl: r.Tpl})
		}
	}

	return nil
}

// Items предметы с потомками. Каждый идентификатор должен быть в инвентаре.
func (s *Store) Items(ctx context.Context, id string, itemIDs []string) ([]entity.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}

	var out []entity.Item

	for _, itemID := range itemIDs {
		children := entity.ChildrenOf(a.inventory, itemID)
		if len(children) == 0 {
			return nil, domain.ErrItemNotFound(itemID)
		}

		out = append(out, entity.CloneItems(children)...)
	}

	return out, nil
}

func (s *Store) TakeItems(ctx context.Context, id string, itemIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return err
	}

	drop := make(map[string]struct{})

	for _, itemID := range itemIDs {
		children := entity.ChildrenOf(a.inventory, itemID)
		if len(children) == 0 {
			return domain.ErrItemNotFound(itemID)
		}

		for _, it := range children {
			drop[it.ID] = struct{}{}
		}
	}

	a.inventory = lo.Reject(a.inventory, func(it entity.Item, _ int) bool {
		_, ok := drop[it.ID]
		return ok
	})

	return nil
}

func (s *Store) ReturnItems(ctx context.Context, id string, items []entity.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, id)
	if err != nil {
		return err
	}

	a.inventory = append(a.inventory, entity.CloneItems(items)...)

	return nil
}

// Exchange списывает оплату count раз и выдаёт покупателю предметы лота с
// новыми идентификаторами. При нехватке оплаты ничего не меняется.
func (s *Store) Exchange(ctx context.Context, ex trade.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.account(ctx, ex.ProfileID)
	if err != nil {
		return err
	}

	money := make(map[value.Currency]int64)
	need := make(map[string]int)

	for _, r := range ex.Requirements {
		amount := int64(math.Round(r.Count)) * int64(ex.Count)

		if c, ok := value.CurrencyFromTpl(r.Tpl); ok {
			money[c] += amount
			continue
		}

		need[r.Tpl] += int(amount)
	}

	for c, amount := range money {
		if a.wallet[c] < amount {
			return fmt.Errorf("pay %d %s: %w", amount, c, ErrInsufficientFunds)
		}
	}

	taken, ok := pickByTemplate(a.inventory, need)
	if !ok {
		return ErrMissingItems
	}

	for c, amount := range money {
		a.wallet[c] -= amount
	}

	a.inventory = lo.Reject(a.inventory, func(it entity.Item, _ int) bool {
		_, ok := taken[it.ID]
		return ok
	})
	a.inventory = append(a.inventory, reissue(ex.Items)...)

	logger(ctx).Debug("exchange done",
		logx.FieldProfileID, ex.ProfileID,
		logx.FieldOfferID, ex.OfferID,
		logx.FieldCount, ex.Count,
		"pay-to", ex.PayTo,
	)

	return nil
}

func (s *Store) account(ctx context.Context, id string) (*account, error) {
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}

	if !s.autoCreate || id == "" {
		return nil, domain.ErrProfileNotFound(id)
	}

	a := &account{
		profile: entity.Profile{
			ID:            id,
			Nickname:      id,
			TraderLoyalty: make(map[string]int),
		},
		wallet: map[value.Currency]int64{value.RUB: s.startingRoubles},
	}
	s.accounts[id] = a

	logger(ctx).Info("profile created", logx.FieldProfileID, id)

	return a, nil
}

// pickByTemplate выбирает корневые предметы нужных шаблонов вместе с потомками.
func pickByTemplate(inventory []entity.Item, need map[string]int) (map[string]struct{}, bool) {
	taken := make(map[string]struct{})

	for tpl, n := range need {
		for _, it := range inventory {
			if n == 0 {
				break
			}

			if it.Tpl != tpl || it.ParentID != "" {
				continue
			}

			for _, c := range entity.ChildrenOf(inventory, it.ID) {
				taken[c.ID] = struct{}{}
			}

			n--
		}

		if n > 0 {
			return nil, false
		}
	}

	return taken, true
}

// reissue копия предметов с новыми идентификаторами и сохранёнными связями.
func reissue(items []entity.Item) []entity.Item {
	ids := make(map[string]string, len(items))
	for _, it := range items {
		ids[it.ID] = xid.New().String()
	}

	out := entity.CloneItems(items)
	for i := range out {
		out[i].ID = ids[out[i].ID]

		if p, ok := ids[out[i].ParentID]; ok {
			out[i].ParentID = p
		} else {
			out[i].ParentID = ""
			out[i].SlotID = ""
		}
	}

	return out
}
