package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"flea_market/pkg/errcodes"
)

// AppError ошибка инфраструктурного слоя (репозитории, кеши) с кодом.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает ошибку, сохраняя её для errors.Is/As.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}

	return "", false
}

// HasCode проверяет код AppError в цепочке.
func HasCode(err error, code failure.ErrorCode) bool {
	c, ok := GetCode(err)
	return ok && c == code
}

// Ошибки рынка, которые уходят клиенту.

func ErrOfferNotFound(offerID string) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("offer %s not found", offerID),
		failure.WithCode(errcodes.OfferNotFound),
		failure.WithDescription("Offer not found"),
	)
}

func ErrInvalidPurchaseCount(count int) error {
	return failure.NewInvalidArgumentError(
		fmt.Sprintf("invalid purchase count %d", count),
		failure.WithCode(errcodes.InvalidPurchaseCount),
		failure.WithDescription("Purchase count must be positive"),
	)
}

func ErrInvalidOfferRequest(reason string) error {
	return failure.NewInvalidArgumentError(
		"invalid offer request: "+reason,
		failure.WithCode(errcodes.InvalidOfferRequest),
		failure.WithDescription(reason),
	)
}

func ErrOfferOutOfStock(offerID string, requested, available int) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("offer %s: requested %d, available %d", offerID, requested, available),
		failure.WithCode(errcodes.OfferOutOfStock),
		failure.WithDescription("Not enough items in the offer"),
	)
}

func ErrBuyRestrictionReached(offerID string) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("offer %s: buy restriction reached", offerID),
		failure.WithCode(errcodes.BuyRestrictionReached),
		failure.WithDescription("Purchase limit for this item is reached"),
	)
}

func ErrLoyaltyLevelTooLow(traderID string, required, actual int) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("trader %s requires loyalty %d, profile has %d", traderID, required, actual),
		failure.WithCode(errcodes.LoyaltyLevelTooLow),
		failure.WithDescription("Loyalty level is too low"),
	)
}

func ErrOfferNotOwned(offerID string) error {
	return failure.NewForbiddenError(
		fmt.Sprintf("offer %s belongs to another seller", offerID),
		failure.WithCode(errcodes.OfferNotOwned),
		failure.WithDescription("Offer belongs to another seller"),
	)
}

func ErrPaymentFailed(err error) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("payment failed: %v", err),
		failure.WithCode(errcodes.PaymentFailed),
		failure.WithDescription("Payment failed"),
	)
}

func ErrTraderNotFound(traderID string) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("trader %s not found", traderID),
		failure.WithCode(errcodes.TraderNotFound),
		failure.WithDescription("Trader not found"),
	)
}

func ErrItemNotFound(id string) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("item %s not found", id),
		failure.WithCode(errcodes.ItemNotFound),
		failure.WithDescription("Item not found"),
	)
}

func ErrProfileNotFound(profileID string) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("profile %s not found", profileID),
		failure.WithCode(errcodes.ProfileNotFound),
		failure.WithDescription("Profile not found"),
	)
}
