// Package types defines the core data model shared across rewind: the
// Operation record and its kind/status enums, the Result and Preview
// shapes strategies return, and the small interfaces (FS, BackupStore,
// OperationLookup) that keep the packages decoupled.
package types
