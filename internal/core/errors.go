package core

// StorageError wraps a failure of the persistence engine. Error returns the
// engine's own message unchanged so it can be reported to callers verbatim.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
