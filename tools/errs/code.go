package errs

// Error codes grouped by concern. 1xxx transport/input, 2xxx ledger/storage.
const (
	ArgsError           = 1001 // malformed or incomplete input
	UnknownEventError   = 1002 // event discriminator outside {join, leave}
	UnauthorizedError   = 1003
	ServerInternalError = 2000
	StoreError          = 2001 // key-value store unavailable
	RecordNotFoundError = 2002
)

var (
	ErrArgs           = NewCodeError(ArgsError, "ArgsError")
	ErrUnknownEvent   = NewCodeError(UnknownEventError, "UnknownEventError")
	ErrUnauthorized   = NewCodeError(UnauthorizedError, "UnauthorizedError")
	ErrInternalServer = NewCodeError(ServerInternalError, "ServerInternalError")
	ErrStore          = NewCodeError(StoreError, "StoreError")
	ErrRecordNotFound = NewCodeError(RecordNotFoundError, "RecordNotFoundError")
)
