package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"
	InvalidProfileID    failure.ErrorCode = "InvalidProfileID"

	// Marketplace.
	OfferNotFound         failure.ErrorCode = "OfferNotFound"
	OfferOutOfStock       failure.ErrorCode = "OfferOutOfStock"
	OfferNotOwned         failure.ErrorCode = "OfferNotOwned"
	InvalidPurchaseCount  failure.ErrorCode = "InvalidPurchaseCount"
	InvalidOfferRequest   failure.ErrorCode = "InvalidOfferRequest"
	BuyRestrictionReached failure.ErrorCode = "BuyRestrictionReached"
	LoyaltyLevelTooLow    failure.ErrorCode = "LoyaltyLevelTooLow"
	PaymentFailed         failure.ErrorCode = "PaymentFailed"
	TraderNotFound        failure.ErrorCode = "TraderNotFound"
	ItemNotFound          failure.ErrorCode = "ItemNotFound"
	ProfileNotFound       failure.ErrorCode = "ProfileNotFound"
)
