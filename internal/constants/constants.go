package constants

const (
	MeetAuthGateway = "meet-auth-gateway"

	QueryParamAuthorizationCode = "code"
	QueryParamError             = "error"
	QueryParamState             = "state"

	// Error codes carried to the front-end failure route.
	ErrorCodeNoCode        = "no_code"
	ErrorCodeCSRFFailed    = "csrf_failed"
	ErrorCodeExchange      = "exchange_failed"
	ErrorCodeProfileFetch  = "profile_failed"
	ErrorCodeInternalError = "server_error"
)
