package svm

import (
	"github.com/rs/zerolog"

	"github.com/strataplatform/strata-go/model/strata"
	"github.com/strataplatform/strata-go/module/metrics"
	"github.com/strataplatform/strata-go/protocol"
)

const (
	// DefaultEpochsPerEra is the network default length of a storage era.
	DefaultEpochsPerEra uint16 = 40

	// DefaultBlockSpacingMs is the expected average block spacing, used as
	// the half-width of document timestamp validity windows.
	DefaultBlockSpacingMs uint64 = 5000

	// DefaultMinWithdrawalFee is the minimum core-chain fee a withdrawal
	// must leave room for on top of the withdrawn amount.
	DefaultMinWithdrawalFee strata.Credits = 100_000
)

// Context bundles the immutable inputs of transition processing: the version
// table and the network parameters. It is threaded explicitly through every
// call; nothing in the machine reads versioning from globals.
type Context struct {
	Version *protocol.PlatformVersion

	EpochsPerEra     uint16
	BlockSpacingMs   uint64
	MinWithdrawalFee strata.Credits

	Logger  zerolog.Logger
	Metrics *metrics.PipelineCollector
}

// Option configures a Context.
type Option func(ctx Context) Context

// NewContext returns a Context for the given version table with network
// defaults, applying options in order.
func NewContext(version *protocol.PlatformVersion, opts ...Option) Context {
	ctx := Context{
		Version:          version,
		EpochsPerEra:     DefaultEpochsPerEra,
		BlockSpacingMs:   DefaultBlockSpacingMs,
		MinWithdrawalFee: DefaultMinWithdrawalFee,
		Logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		ctx = opt(ctx)
	}
	return ctx
}

// WithLogger sets the logger transition processing logs through.
func WithLogger(log zerolog.Logger) Option {
	return func(ctx Context) Context {
		ctx.Logger = log
		return ctx
	}
}

// WithEpochsPerEra overrides the storage era length.
func WithEpochsPerEra(epochs uint16) Option {
	return func(ctx Context) Context {
		ctx.EpochsPerEra = epochs
		return ctx
	}
}

// WithBlockSpacing overrides the expected block spacing in milliseconds.
func WithBlockSpacing(ms uint64) Option {
	return func(ctx Context) Context {
		ctx.BlockSpacingMs = ms
		return ctx
	}
}

// WithMinWithdrawalFee overrides the minimum withdrawal fee.
func WithMinWithdrawalFee(fee strata.Credits) Option {
	return func(ctx Context) Context {
		ctx.MinWithdrawalFee = fee
		return ctx
	}
}

// WithMetrics attaches pipeline metrics collection.
func WithMetrics(collector *metrics.PipelineCollector) Option {
	return func(ctx Context) Context {
		ctx.Metrics = collector
		return ctx
	}
}

// timestampWindow returns the validity window for document timestamps
// around the block time.
func (ctx Context) timestampWindow(blockTime strata.Timestamp) (start, end strata.Timestamp) {
	spacing := strata.Timestamp(ctx.BlockSpacingMs)
	if blockTime > spacing {
		start = blockTime - spacing
	}
	return start, blockTime + spacing
}
