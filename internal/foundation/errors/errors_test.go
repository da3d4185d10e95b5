package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "hostname is required").
			WithSeverity(SeverityFatal).
			WithContext("plugin", "sitemap").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "hostname is required" {
			t.Errorf("unexpected message %q", err.Message())
		}
		if got := err.Error(); got != "[config:fatal] hostname is required" {
			t.Errorf("unexpected Error() %q", got)
		}

		name, exists := err.Context().GetString("plugin")
		if !exists || name != "sitemap" {
			t.Errorf("expected context plugin=sitemap, got %v", name)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		inner := ConfigError("bad value").Build()
		wrapped := fmt.Errorf("loading: %w", inner)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryConfig) {
			t.Error("expected wrapped error to have config category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to default to internal")
		}
		if !inner.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := BuildError("stage failed").Build()
		derived := base.WithContext("stage", "sitemap")

		if _, ok := base.Context().Get("stage"); ok {
			t.Error("expected original context to be untouched")
		}
		if v, _ := derived.Context().GetString("stage"); v != "sitemap" {
			t.Errorf("expected derived context stage=sitemap, got %q", v)
		}
	})

	t.Run("Is compares category and message", func(t *testing.T) {
		a := NewError(CategorySerialize, "encode failed").Build()
		b := NewError(CategorySerialize, "encode failed").WithContext("output", "sitemap.xml").Build()
		c := BuildError("encode failed").Build()

		if !errors.Is(a, b) {
			t.Error("expected errors with same category and message to match")
		}
		if errors.Is(a, c) {
			t.Error("expected different categories not to match")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("permission denied")
		err := WrapError(originalErr, CategoryFileSystem, "write failed").
			WithSeverity(SeverityWarning).
			WithContext("path", "public/sitemap.xml").
			WithContextMap(ErrorContext{"attempt": 1}).
			Build()

		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		if err.Cause() != originalErr {
			t.Error("expected Cause to return the wrapped error")
		}
		if v, _ := err.Context().Get("attempt"); v != 1 {
			t.Errorf("expected attempt context 1, got %v", v)
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError},
			{"BuildError", BuildError("test"), CategoryBuild, SeverityError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	var nilCtx ErrorContext
	if _, ok := nilCtx.Get("x"); ok {
		t.Error("expected lookup on nil context to miss")
	}

	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")
	merged := ctx1.Merge(ctx2)

	for key, want := range map[string]string{"key1": "value1", "key2": "value2", "shared": "overridden"} {
		if got, _ := merged.GetString(key); got != want {
			t.Errorf("merged[%s] = %q, want %q", key, got, want)
		}
	}
	if got, _ := ctx1.GetString("shared"); got != "original" {
		t.Errorf("expected merge to leave receiver untouched, got %q", got)
	}
}
