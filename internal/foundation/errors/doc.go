// Package errors provides the classified error type used across releasepub.
//
// Every failure that reaches the CLI carries a category (config, auth,
// network, upload, filesystem, ...), a severity and structured context such
// as the upload target and its directory. The CLI adapter turns the category
// into an exit code.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryNetwork, "source map upload failed").
//		WithContext("target", "server").
//		WithContext("directory", dir).
//		Build()
package errors
