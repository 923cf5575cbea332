package ability

// Machine-readable error codes carried in failure envelopes.
const (
	// CodeInvalidInput means the input payload failed schema validation.
	CodeInvalidInput = "invalid_input"

	// CodeUnauthorized means the permission gate denied the invocation.
	CodeUnauthorized = "unauthorized"

	// CodeNotFound means a domain-level lookup inside the executor missed.
	CodeNotFound = "not_found"

	// CodeStoreError means the content store rejected an operation.
	CodeStoreError = "store_error"

	// CodeUnsupported means the requested capability is unavailable in the
	// current platform configuration.
	CodeUnsupported = "unsupported"

	// CodeInternalError means an unexpected fault occurred during execution.
	CodeInternalError = "internal_error"

	// CodeAbilityNotFound means the invocation referenced an unregistered name.
	CodeAbilityNotFound = "ability_not_found"

	// CodeTimeout means the execution exceeded the invoker's deadline.
	CodeTimeout = "timeout"
)
