package memdb

import "errors"

var (
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)
