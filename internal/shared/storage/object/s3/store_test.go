package s3

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/front.png", want: "owner/front.png"},
		{name: "simple prefix", prefix: "root", key: "owner/back.jpg", want: "root/owner/back.jpg"},
		{name: "prefix trailing slash", prefix: "root/", key: "owner/back.jpg", want: "root/owner/back.jpg"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/owner/back.jpg", want: "root/owner/back.jpg"},
		{name: "nested prefix", prefix: "root/sub", key: "owner/back.jpg", want: "root/sub/owner/back.jpg"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		" transaction_images/ ": "transaction_images",
		"/a/b/":                 "a/b",
	}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("identity")}
	if _, err := io.ReadAll(c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if c.n != int64(len("identity")) {
		t.Fatalf("expected %d bytes counted, got %d", len("identity"), c.n)
	}
}
