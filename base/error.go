package base

import (
	"go.uber.org/zap"

	"github.com/ValentinoDucAnhNguyen/seminarFairML/base/log"
)

// CheckPanic catches panic.
func CheckPanic() {
	if r := recover(); r != nil {
		log.Logger().Error("panic recovered", zap.Any("panic", r))
	}
}
