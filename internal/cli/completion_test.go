package cli

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"testing"
)

func complete(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := New(io.Discard, LogInfo).RootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"__complete"}, args...))
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("__complete %v: %v", args, err)
	}
	return out.String()
}

func TestCompleteCompositor(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
		absent []string
	}{
		{"", []string{"script", "vips"}, nil},
		{"v", []string{"vips"}, []string{"script"}},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			out := complete(t, "montage", "--compositor", tt.prefix)
			lines := strings.Split(out, "\n")
			for _, w := range tt.want {
				if !slices.Contains(lines, w) {
					t.Errorf("completions %q missing %q", out, w)
				}
			}
			for _, a := range tt.absent {
				if slices.Contains(lines, a) {
					t.Errorf("completions %q should not offer %q", out, a)
				}
			}
		})
	}
}

func TestCompleteCatalogExtensions(t *testing.T) {
	for _, sub := range []string{"montage", "inspect"} {
		out := complete(t, sub, "--catalog", "")
		lines := strings.Split(out, "\n")
		if !slices.Contains(lines, "json") || !slices.Contains(lines, "gz") {
			t.Errorf("%s --catalog completions = %q, want json and gz", sub, out)
		}
	}
}

func TestCompletionScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			cmd := New(io.Discard, LogInfo).RootCommand()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"completion", shell})
			if err := cmd.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "webcollage") {
				t.Errorf("%s script does not mention webcollage", shell)
			}
		})
	}
}
