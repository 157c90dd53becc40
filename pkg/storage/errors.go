package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an insert collides with an existing record,
// e.g. a second active listing for a property or a second escrow for a payment.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConditionFailed is returned when a conditional write loses to a concurrent
// writer: the record's status or version no longer matches what the caller read.
var ErrConditionFailed = errors.New("conditional write failed")
