package parser

import (
	"testing"
)

// TestPhase5ParserAvailability tests the availability of Tree-sitter parsers for C#, Kotlin, and Zig
func TestPhase5ParserAvailability(t *testing.T) {
	t.Run("CSharp Parser Availability", func(t *testing.T) {
		// The C# grammar is set up by setupCSharp; parsing is exercised in
		// csharp_parser_test.go and csharp_debug_test.go.
		t.Skip("C# parser availability is covered by csharp_parser_test.go")
	})

	t.Run("Kotlin Parser Availability", func(t *testing.T) {
		// Test if Kotlin parser can be imported and initialized
		// This test will be implemented when we have network access to download the dependency
		t.Skip("Network access required to test Kotlin parser availability")
	})

	t.Run("Zig Parser Availability", func(t *testing.T) {
		// The Zig grammar is set up by setupZig; parsing is exercised in
		// zig_parser_test.go.
		t.Skip("Zig parser availability is covered by zig_parser_test.go")
	})
}

// TestModernLanguageFeatures tests parsing of modern language features
func TestModernLanguageFeatures(t *testing.T) {
	t.Run("CSharp Modern Features", func(t *testing.T) {
		t.Skip("C# modern features are covered by csharp_modern_features_test.go")
	})

	t.Run("Kotlin Modern Features", func(t *testing.T) {
		t.Skip("Requires Kotlin parser dependency")
		// Will test: multiplatform code, coroutines, data classes, etc.
	})
}
