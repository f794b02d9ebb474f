package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LUCROREAL_TEST_VALUE", "  redis:6379 ")
	if got := Get("LUCROREAL_TEST_VALUE", "x"); got != "redis:6379" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("LUCROREAL_TEST_VALUE", "   ")
	if got := Get("LUCROREAL_TEST_VALUE", "x"); got != "x" {
		t.Fatalf("blank value should fall back, got %q", got)
	}
}

func TestOneOf(t *testing.T) {
	t.Setenv("LOG_FORMAT", "Console")
	if got := OneOf("LOG_FORMAT", "json", "json", "console"); got != "console" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("LOG_FORMAT", "xml")
	if got := OneOf("LOG_FORMAT", "json", "json", "console"); got != "json" {
		t.Fatalf("unknown format should fall back, got %q", got)
	}
}
