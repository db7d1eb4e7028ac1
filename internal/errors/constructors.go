package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *WorkerError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *WorkerError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *WorkerError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Bundle errors

func BundleLoadError(path string, cause error) *WorkerError {
	return Wrap(cause, CategoryBundle, SeverityFatal, "grammar bundle load failed").
		WithContext("path", path)
}

func BundleRuleError(rule string, cause error) *WorkerError {
	return Wrap(cause, CategoryBundle, SeverityFatal, "invalid grammar rule").
		WithContext("rule", rule)
}

// Pipeline errors

func PipelineError(cause error) *WorkerError {
	return Wrap(cause, CategoryPipeline, SeverityError, "text processing failed")
}

// Storage errors

func StorageError(operation string, cause error) *WorkerError {
	return WrapRetryable(cause, CategoryStorage, SeverityWarning, "history store operation failed").
		WithContext("operation", operation)
}

// Network errors

func NetworkError(target string, cause error) *WorkerError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "network operation failed").
		WithContext("target", target)
}

// Internal errors

func InternalError(message string, cause error) *WorkerError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
