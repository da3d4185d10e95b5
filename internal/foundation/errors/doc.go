// Package errors provides the classified error primitives used across sitemapper.
//
// A ClassifiedError carries a category, a severity and a small context map so
// that callers (the CLI in particular) can decide how to present a failure and
// which exit code to use without string matching.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConfig, "hostname is required").
//		Fatal().
//		WithContext("plugin", "sitemap").
//		Build()
package errors
