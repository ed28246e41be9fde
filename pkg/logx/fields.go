package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldProfileID       = "profile-id"
	FieldOfferID         = "offer-id"
	FieldTemplateID      = "template-id"
	FieldTraderID        = "trader-id"
	FieldSellerType      = "seller-type"
	FieldCount           = "count"
	FieldTask            = "task"
)
