package errors

import (
	"errors"
	"testing"
	"time"
)

func TestScoringErrorWrapsAndFormats(t *testing.T) {
	underlying := errors.New("bad weight")
	err := NewScoringError("feature_scorer", underlying).
		WithEntity(42).
		WithFile(7, "/path/to/file.go").
		WithRecoverable(true)

	if err.Type != ErrorTypeScoring {
		t.Errorf("Type = %v, want %v", err.Type, ErrorTypeScoring)
	}
	if err.EntityID != 42 {
		t.Errorf("EntityID = %d, want 42", err.EntityID)
	}
	if err.FileID != 7 || err.FilePath != "/path/to/file.go" {
		t.Errorf("FileID/FilePath = %d/%s, want 7//path/to/file.go", err.FileID, err.FilePath)
	}
	if !err.IsRecoverable() {
		t.Error("expected Recoverable true")
	}
	if !errors.Is(err, underlying) {
		t.Error("expected error to unwrap to underlying")
	}

	want := `scoring(feature_scorer) on /path/to/file.go: bad weight`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorWithoutFilePathOmitsPath(t *testing.T) {
	err := NewGraphError("partitioner", errors.New("cycle"))
	want := "graph(partitioner): cycle"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAllConstructorsSetExpectedType(t *testing.T) {
	cases := []struct {
		name string
		err  *AnalysisError
		want ErrorType
	}{
		{"normalization", NewNormalizationError("c", nil), ErrorTypeNormalization},
		{"scoring", NewScoringError("c", nil), ErrorTypeScoring},
		{"cache", NewCacheError("c", nil), ErrorTypeCache},
		{"graph", NewGraphError("c", nil), ErrorTypeGraph},
		{"directory", NewDirectoryError("c", nil), ErrorTypeDirectory},
		{"filesplit", NewFileSplitError("c", nil), ErrorTypeFileSplit},
		{"pipeline", NewPipelineError("c", nil), ErrorTypePipeline},
		{"parse", NewParseError("c", nil), ErrorTypeParse},
		{"config", NewConfigError("c", nil), ErrorTypeConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Type != tc.want {
				t.Errorf("Type = %v, want %v", tc.err.Type, tc.want)
			}
		})
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	err3 := errors.New("error 3")

	multiErr := NewMultiError([]error{err1, err2, err3})
	if len(multiErr.Errors) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(multiErr.Errors))
	}
	if got := multiErr.Error(); got[:10] != "3 errors: " {
		t.Errorf("Expected message to start with '3 errors: ', got %q", got)
	}

	singleErr := NewMultiError([]error{err1})
	if singleErr.Error() != "error 1" {
		t.Errorf("Expected 'error 1', got %q", singleErr.Error())
	}

	emptyErr := NewMultiError([]error{})
	if emptyErr.Error() != "no errors" {
		t.Errorf("Expected 'no errors', got %q", emptyErr.Error())
	}

	nilFiltered := NewMultiError([]error{err1, nil, err2, nil})
	if len(nilFiltered.Errors) != 2 {
		t.Errorf("Expected 2 errors after filtering nil, got %d", len(nilFiltered.Errors))
	}

	unwrapped := multiErr.Unwrap()
	if len(unwrapped) != 3 {
		t.Errorf("Expected 3 unwrapped errors, got %d", len(unwrapped))
	}
}

func TestTimestampIsRecent(t *testing.T) {
	err := NewPipelineError("orchestrator", errors.New("test"))
	if err.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
	now := time.Now()
	if err.Timestamp.After(now) || now.Sub(err.Timestamp) > time.Second {
		t.Errorf("Timestamp seems incorrect: %v", err.Timestamp)
	}
}

func BenchmarkScoringError(b *testing.B) {
	underlying := errors.New("underlying error")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := NewScoringError("feature_scorer", underlying).
			WithFile(123, "/path/to/file").
			WithRecoverable(true)
		_ = err.Error()
	}
}
