package richtext

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"<b>no</b>", "&lt;b&gt;no&lt;/b&gt;"},
		{"love #travel", `love <span class="hashtag">#travel</span>`},
		{"#one #two", `<span class="hashtag">#one</span> <span class="hashtag">#two</span>`},
		{"with @jane.doe", `with <span class="mention">@jane.doe</span>`},
		{"mail me a@b.com", "mail me a@b.com"},
		{"it's", "it&#39;s"},
		{"see https://example.com/shop", `see <a href="https://example.com/shop" rel="nofollow noopener" target="_blank">https://example.com/shop</a>`},
		{"https://example.com/#top.", `<a href="https://example.com/#top" rel="nofollow noopener" target="_blank">https://example.com/#top</a>.`},
	}
	for _, tt := range tests {
		got := FormatLine(tt.input)
		if got != tt.expected {
			t.Errorf("FormatLine(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderBioLineBreaks(t *testing.T) {
	var buf bytes.Buffer
	RenderBio(&buf, "first\r\nsecond\n\n")
	if got := buf.String(); got != "first<br>second" {
		t.Errorf("RenderBio = %q, want %q", got, "first<br>second")
	}
}

func TestBioComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Bio("hi #go").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), `<span class="hashtag">#go</span>`) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"http://example.com/a?b=1&c=2", "http://example.com/a?b=1&amp;c=2"},
		{"javascript:alert(1)", ""},
		{"/relative", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLinkHrefAndLabel(t *testing.T) {
	tests := []struct {
		input string
		href  string
		label string
	}{
		{"example.com", "https://example.com", "example.com"},
		{"https://shop.example.com/", "https://shop.example.com/", "shop.example.com"},
		{"  ", "", ""},
		{"javascript://x", "", "x"},
	}
	for _, tt := range tests {
		if got := LinkHref(tt.input); got != tt.href {
			t.Errorf("LinkHref(%q) = %q, want %q", tt.input, got, tt.href)
		}
		if got := LinkLabel(tt.input); got != tt.label {
			t.Errorf("LinkLabel(%q) = %q, want %q", tt.input, got, tt.label)
		}
	}
}
