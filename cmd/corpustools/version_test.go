package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildInfoFallbacks(t *testing.T) {
	t.Parallel()

	for name, get := range map[string]func() string{
		"version": getVersion,
		"commit":  getCommit,
		"date":    getDate,
	} {
		if get() == "" {
			t.Errorf("%s returned empty string", name)
		}
	}
}

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"corpustools version", "commit:", "built:", "go:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}
