// Package errors provides coded domain errors for the travel logistics core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error without a domain code.
	CodeUnknown Code = "UNKNOWN"

	// Ownership ledger errors
	CodeInvalidTransfer Code = "INVALID_TRANSFER"
	CodeRetrievalDenied Code = "RETRIEVAL_DENIED"

	// Container errors
	CodeContainerFull Code = "CONTAINER_FULL"
	CodeMountRequired Code = "MOUNT_REQUIRED"
	CodeNotContained  Code = "NOT_CONTAINED"

	// Vehicle slot errors
	CodeAlreadyAssigned      Code = "ALREADY_ASSIGNED"
	CodeSlotCapacityExceeded Code = "SLOT_CAPACITY_EXCEEDED"
	CodeInvalidAssignment    Code = "INVALID_ASSIGNMENT"
	CodeNotAssigned          Code = "NOT_ASSIGNED"

	// Configuration errors
	CodeUnknownConfigurationKey Code = "UNKNOWN_CONFIGURATION_KEY"
	CodeInvalidConfig           Code = "INVALID_CONFIG"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"
)
