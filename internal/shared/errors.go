package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrStoreNotInitialized indicates the backing table document does not exist yet.
	ErrStoreNotInitialized = errors.New("store not initialized")
)
