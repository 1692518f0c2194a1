package storage

import "errors"

// ErrorNotFound is returned by a storage Get when nothing is stored under the key
var ErrorNotFound = errors.New("not found")

// storage is a hierarchical key-value store. Keys are dot-separated paths, and Get returns the subtree below a
// key as nested maps.
type storage interface {
	Set(key string, value string) error
	SetDocument(key string, value any) error
	Get(key string) (map[string]any, error)
	Unset(key string) error
}
