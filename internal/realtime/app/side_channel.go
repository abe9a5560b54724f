package app

import (
	"sync/atomic"

	"todo_realtime_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SideChannelFailures number of swallowed push / relay / side persistence failures
// since process start. Exposed on GET / next to the presence count.
var SideChannelFailures atomic.Int64

// recordSideChannelFailure log and count a failure that must not fail the caller
func recordSideChannelFailure(op string, err error, fields ...zap.Field) {
	SideChannelFailures.Add(1)
	logger.Log.Error(op+" failed", append(fields, zap.Error(err))...)
}

func newMessageID() string {
	return uuid.New().String()
}
