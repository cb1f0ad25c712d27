package errors

import "errors"

// ErrOptimisticLock the row changed underneath the transaction
var ErrOptimisticLock = errors.New("record was modified by another operation, please retry")

// ErrDuesExceeded confirming the payment would push the paid total past the configured fee
var ErrDuesExceeded = errors.New("payment exceeds outstanding dues")
