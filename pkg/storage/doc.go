// Package storage defines the persistence contract for Quill: the entity
// types, the Store interface, and shared sentinel errors.
//
// Every document operation takes the owning account id and every message
// operation takes the derived session id, so cross-account access is
// impossible to express through the interface rather than merely checked.
//
// Adapters live in subpackages: postgres (pgx pool), sqlite (embedded
// fallback), and memory (tests and throwaway runs).
package storage
