package config

import (
	"fmt"
	"strings"
)

// StorageKeyStruct builds the key-value keys used by the repositories.
type StorageKeyStruct struct {
	prefix string
}

func NewStorageKeyStruct(prefix string) *StorageKeyStruct {
	return &StorageKeyStruct{prefix: prefix}
}

// SessionKey returns the key holding the logged-in admin.
func (k *StorageKeyStruct) SessionKey() string {
	return k.prefix + "_user"
}

// RosterKey returns the key holding an admin's roster. Usernames are
// lowercased so "Mei" and "mei" share one namespace.
func (k *StorageKeyStruct) RosterKey(username string) string {
	return fmt.Sprintf("%s_%s_students", k.prefix, strings.ToLower(username))
}

var StorageKey = NewStorageKeyStruct("progresspoint")
