package core

import "errors"

var (
	errTimestampNotIncreasing = errors.New("core: header timestamp does not exceed parent timestamp")
	errTimestampInFuture      = errors.New("core: header timestamp too far in the future")
	errNumberDiscontinuous    = errors.New("core: header number is not parent number plus one")
	errExtraDataTooLarge      = errors.New("core: extra data exceeds maximum size")
	errGasUsedExceedsLimit    = errors.New("core: gas used exceeds gas limit")
	errUnclesHashMismatch     = errors.New("core: recomputed uncles hash does not match header")
	errTxHashMismatch         = errors.New("core: recomputed transaction hash does not match header")
	errTooManyUncles          = errors.New("core: block carries more than the maximum allowed uncles")
	errDuplicateUncle         = errors.New("core: uncle referenced more than once in the same block")
	errUncleNotRelated        = errors.New("core: uncle parent is outside the allowed generation window")
	errUncleAlreadyIncluded   = errors.New("core: uncle already included by an ancestor")
	errStateRootMismatch      = errors.New("core: executed state root does not match header")
	errGasLimitTooLow         = errors.New("core: gas limit below protocol floor")
	errGasLimitOutOfBounds    = errors.New("core: gas limit moved too far from parent")
)
