package reply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Error пишет ошибку в формате {code,message,supportId}. Ошибки клиента
// логируются как warn, остальные как error.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status, defaultCode := classify(err)

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	if defaultCode != "" {
		response.WithDefaultCode(defaultCode)
	}

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("request failed", logx.Error(err))
	} else {
		logger(ctx).Warn("request rejected",
			slog.String("code", response.Code),
			slog.Int(logx.FieldResponseStatus, status),
			logx.Error(err),
		)
	}

	JSON(ctx, w, status, response)
}

func classify(err error) (int, failure.ErrorCode) {
	switch {
	case failure.IsInvalidArgumentError(err):
		return http.StatusBadRequest, errcodes.ValidationError
	case failure.IsNotFoundError(err):
		return http.StatusNotFound, errcodes.NotFound
	case failure.IsUnauthorizedError(err):
		return http.StatusUnauthorized, ""
	case failure.IsForbiddenError(err):
		return http.StatusForbidden, errcodes.Forbidden
	case failure.IsConflictError(err):
		return http.StatusConflict, ""
	case failure.IsUnprocessableEntityError(err):
		return http.StatusUnprocessableEntity, ""
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errcodes.TimeoutExceeded
	default:
		return http.StatusInternalServerError, errcodes.InternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
