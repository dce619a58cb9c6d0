package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test when it is unset and fails
// when it is set to anything else. Use this in suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if os.Getenv("GO_ENV") == "" {
		if err := os.Setenv("GO_ENV", "test"); err != nil {
			t.Fatalf("Failed to set GO_ENV=test: %v", err)
		}
	}
	RequireTestEnvironment(t)
}

// PrintEnvironmentInfo prints the current test environment configuration.
// Useful for debugging test environment issues.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
}

// maskDatabaseURL hides credentials in a database URL for safe printing
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	if strings.HasPrefix(url, "sqlite:") {
		return url
	}
	if at := strings.LastIndex(url, "@"); at >= 0 {
		if scheme := strings.Index(url, "://"); scheme >= 0 && scheme < at {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	return url
}
