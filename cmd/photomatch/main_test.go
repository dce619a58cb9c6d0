package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/tests/testutil"
)

func writeImage(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScoreIdenticalImages(t *testing.T) {
	dir := t.TempDir()
	img := testutil.StripesPNG(t, 64, 64, 8, true)
	photo := writeImage(t, dir, "photo.png", img)
	design := writeImage(t, dir, "design.png", img)

	out, _, err := run(t, "score", "--size", "32", photo, design)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for _, want := range []string{"1.0000", "perfect", "auto-match"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRankOrdersDesignsAndFlagsUnreadable(t *testing.T) {
	dir := t.TempDir()
	photo := writeImage(t, dir, "photo.png", testutil.StripesPNG(t, 64, 64, 8, true))
	other := writeImage(t, dir, "horizontal.png", testutil.StripesPNG(t, 64, 64, 8, false))
	same := writeImage(t, dir, "vertical.png", testutil.StripesPNG(t, 64, 64, 8, true))
	broken := writeImage(t, dir, "broken.png", []byte("not an image"))

	out, errOut, err := run(t, "rank", "--size", "32", photo, other, broken, same)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if !strings.Contains(errOut, "broken.png") {
		t.Fatalf("expected warning for broken design, got %q", errOut)
	}
	if strings.Index(out, "vertical.png") > strings.Index(out, "horizontal.png") {
		t.Fatalf("expected identical design ranked first:\n%s", out)
	}
	if !strings.Contains(out, "auto-match: "+same) {
		t.Fatalf("expected auto-match line, got:\n%s", out)
	}
}

func TestRankWithoutMatch(t *testing.T) {
	dir := t.TempDir()
	photo := writeImage(t, dir, "photo.png", testutil.StripesPNG(t, 64, 64, 8, true))
	other := writeImage(t, dir, "horizontal.png", testutil.StripesPNG(t, 64, 64, 8, false))

	out, _, err := run(t, "rank", "--size", "32", photo, other)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if !strings.Contains(out, "needs review") {
		t.Fatalf("expected review line, got:\n%s", out)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"score needs two images", []string{"score", "only.png"}},
		{"rank needs a design", []string{"rank", "photo.png"}},
		{"size must be positive", []string{"score", "--size", "0", "a.png", "b.png"}},
		{"missing photo file", []string{"score", "/nonexistent/a.png", "/nonexistent/b.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.args...); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}
