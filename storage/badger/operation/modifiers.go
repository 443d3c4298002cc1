package operation

import (
	"errors"
	"syscall"
)

// TerminateOnFullDisk helper function to crash node if write failed because disk is full
func TerminateOnFullDisk(err error) error {
	// using panic so any deferred functions can still execute
	// relevant badgerDB code: https://github.com/dgraph-io/badger/blob/156819ccb106bbeb207e985f561780e2929344bc/value.go#L1454-L1463
	if err != nil && errors.Is(err, syscall.ENOSPC) {
		panic("disk full, terminating node...")
	}
	return err
}
