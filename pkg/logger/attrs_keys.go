package logger

import "log/slog"

// Keys for log attributes.
const (
	TimeKey            = slog.TimeKey
	LevelKey           = slog.LevelKey
	MessageKey         = slog.MessageKey
	SourceKey          = slog.SourceKey
	ErrorKey           = "error"
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

// Keys shared by transformer log lines, so records of one transaction can be joined across components.
const (
	ModuleKey    = "module"
	EventKey     = "event"
	TxIdKey      = "tx_id"
	OwnerKey     = "owner"
	AssetIdKey   = "asset_id"
	AmountKey    = "amount"
	RequestIdKey = "request_id"
	ClientIPKey  = "client_ip"
)
