package common

import (
	"context"
	"errors"
	"strings"
)

// IsCtxCanceledErr reports whether err stems from a cancelled context, including errors that only
// carry the cancellation text.
func IsCtxCanceledErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return true
	}

	if strings.HasSuffix(err.Error(), context.Canceled.Error()) {
		return true
	}

	return false
}
