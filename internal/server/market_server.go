package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/trade"
	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/httpx/reply"
	"flea_market/pkg/httpx/req"
	"flea_market/pkg/rest"
)

type marketService interface {
	Search(ctx context.Context, profileID string, r entity.SearchRequest) (entity.SearchResult, error)
	PriceStats(ctx context.Context, tpl string) (entity.PriceStats, error)
	CreatePlayerOffer(ctx context.Context, profileID string, r trade.CreateOfferRequest) (entity.Offer, error)
	Purchase(ctx context.Context, profileID, offerID string, count int) (trade.PurchaseResult, error)
	ExtendPlayerOffer(ctx context.Context, profileID, offerID string, hours int) (entity.Offer, error)
	CancelPlayerOffer(ctx context.Context, profileID, offerID string) (entity.Offer, error)
}

type traderRefresher interface {
	RefreshTrader(ctx context.Context, traderID string) error
}

type MarketServer struct {
	market  marketService
	traders traderRefresher
}

func NewMarketServer(market marketService, traders traderRefresher) MarketServer {
	return MarketServer{
		market:  market,
		traders: traders,
	}
}

func (s MarketServer) postV1Search(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SearchRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	// поиск доступен и без профиля, тогда лоты торговцев не скрываются по лимитам
	profileID, _ := contextx.ProfileIDFromContext(ctx)

	res, err := s.market.Search(ctx, profileID.String(), newDomainSearchRequest(request))
	if err != nil {
		return fmt.Errorf("market.Search: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSearchResponse(res))

	return nil
}

func (s MarketServer) getV1Prices(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	stats, err := s.market.PriceStats(ctx, chi.URLParam(r, "tpl"))
	if err != nil {
		return fmt.Errorf("market.PriceStats: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPriceStats(stats))

	return nil
}

func (s MarketServer) postV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profileID, err := requireProfileID(ctx)
	if err != nil {
		return err
	}

	var request rest.CreateOfferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	o, err := s.market.CreatePlayerOffer(ctx, profileID, newDomainCreateOfferRequest(request))
	if err != nil {
		return fmt.Errorf("market.CreatePlayerOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTOffer(o))

	return nil
}

func (s MarketServer) postV1Buy(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profileID, err := requireProfileID(ctx)
	if err != nil {
		return err
	}

	var request rest.BuyRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	res, err := s.market.Purchase(ctx, profileID, chi.URLParam(r, "id"), request.Count)
	if err != nil {
		return fmt.Errorf("market.Purchase: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBuyResponse(res))

	return nil
}

func (s MarketServer) postV1Extend(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profileID, err := requireProfileID(ctx)
	if err != nil {
		return err
	}

	var request rest.ExtendRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	o, err := s.market.ExtendPlayerOffer(ctx, profileID, chi.URLParam(r, "id"), request.Hours)
	if err != nil {
		return fmt.Errorf("market.ExtendPlayerOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(o))

	return nil
}

func (s MarketServer) deleteV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	profileID, err := requireProfileID(ctx)
	if err != nil {
		return err
	}

	o, err := s.market.CancelPlayerOffer(ctx, profileID, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("market.CancelPlayerOffer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(o))

	return nil
}

func (s MarketServer) postV1TraderRefresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.traders.RefreshTrader(ctx, chi.URLParam(r, "id")); err != nil {
		return fmt.Errorf("traders.RefreshTrader: %w", err)
	}

	w.WriteHeader(http.StatusAccepted)

	return nil
}

func requireProfileID(ctx context.Context) (string, error) {
	profileID, err := contextx.ProfileIDFromContext(ctx)
	if err != nil || profileID == "" {
		return "", failure.NewInvalidArgumentError(
			"missing profile id",
			failure.WithCode(errcodes.InvalidProfileID),
			failure.WithDescription("X-Profile-Id header is required"),
		)
	}

	return profileID.String(), nil
}
