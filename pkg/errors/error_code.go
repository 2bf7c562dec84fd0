package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidExecuteOrder  ErrorCode = 102
	ErrCodeInvalidTakeProfit    ErrorCode = 103
	ErrCodeInvalidStopLoss      ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 107
	ErrCodeInvalidThreshold     ErrorCode = 108
	ErrCodeInvalidInterval      ErrorCode = 109
	ErrCodeInvalidSymbol        ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeKlineFetchFailed      ErrorCode = 202
	ErrCodeTickerFetchFailed     ErrorCode = 203
	ErrCodeAccountFetchFailed    ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeUnknownStrategy     ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401

	// Trading errors (500-599)
	ErrCodeOrderFailed       ErrorCode = 500
	ErrCodeOrderAmbiguous    ErrorCode = 501
	ErrCodePositionNotFound  ErrorCode = 502
	ErrCodeMarketDataMissing ErrorCode = 503

	// Session errors (600-699)
	ErrCodeInvalidSessionWindow ErrorCode = 600
	ErrCodeInvalidTimezone      ErrorCode = 601

	// Engine errors (700-799)
	ErrCodeEngineDisabled    ErrorCode = 700
	ErrCodeEnableRefused     ErrorCode = 701
	ErrCodeCycleTimeout      ErrorCode = 702
	ErrCodeCycleInProgress   ErrorCode = 703
	ErrCodeEngineNotStarted  ErrorCode = 704
	ErrCodeRetriesExhausted  ErrorCode = 705
	ErrCodeSnapshotStale     ErrorCode = 706
	ErrCodeReloadFailed      ErrorCode = 707
)
