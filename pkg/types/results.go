package types

// Result is the outcome of an undo or redo. Strategies convert every
// internal fault into a Result; nothing throws across the
// strategy/tracker boundary.
type Result struct {
	// Success reports whether the reversal completed
	Success bool `json:"success"`

	// Message names the affected path or command and, on failure, the
	// underlying cause. It is never empty.
	Message string `json:"message"`

	// BackupPath is set when a fresh backup was taken before mutating
	BackupPath string `json:"backupPath,omitempty"`

	// AffectedOperations lists dependent operations implicated by the
	// call, e.g. active dependents blocking an undo
	AffectedOperations []*Operation `json:"affectedOperations,omitempty"`

	// Partial reports that some but not all sub-steps applied,
	// e.g. a multi-edit where an edit's target string was absent
	Partial bool `json:"partial,omitempty"`
}

// Preview is a side-effect-free description of what an undo or redo
// would do, consumed by any presentation layer.
type Preview struct {
	Operation *Operation `json:"operation"`

	// Changes is a human-readable description of the mutation
	Changes string `json:"changes"`

	// CascadingOperations are dependents whose validity is affected
	CascadingOperations []*Operation `json:"cascadingOperations"`

	// Warnings describe degraded expectations, e.g. a target string
	// that is no longer present in the file
	Warnings []string `json:"warnings"`
}

// Ok builds a successful Result.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail builds a failed Result.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// FailErr builds a failed Result from an error.
func FailErr(err error) Result {
	return Result{Success: false, Message: err.Error()}
}
