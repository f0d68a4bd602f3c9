// Package richtext renders profile bio text as HTML: line breaks, links,
// #hashtags and @mentions, with everything else escaped.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reURL     = regexp.MustCompile(`\bhttps?://[^\s<]+[^\s<.,;:!?)'"]`)
	reHashtag = regexp.MustCompile(`(^|[^\w&])#(\w+)`)
	reMention = regexp.MustCompile(`(^|[^\w])@([A-Za-z0-9._]+[A-Za-z0-9_])`)
)

// Bio returns a templ.Component that renders bio as HTML.
func Bio(bio string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderBio(&buf, bio)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderBio writes the HTML representation of bio to buf.
// Lines are joined with <br>; blank trailing lines are dropped.
func RenderBio(buf *bytes.Buffer, bio string) {
	lines := strings.Split(strings.TrimRight(strings.ReplaceAll(bio, "\r\n", "\n"), "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			buf.WriteString("<br>")
		}
		buf.WriteString(FormatLine(line))
	}
}

// FormatLine escapes s and links URLs, hashtags and mentions.
func FormatLine(s string) string {
	escaped := html.EscapeString(s)
	escaped = reURL.ReplaceAllStringFunc(escaped, func(m string) string {
		href := SafeURL(m)
		if href == "" {
			return m
		}
		return `<a href="` + href + `" rel="nofollow noopener" target="_blank">` + m + `</a>`
	})
	return ApplyOutsideTags(escaped, func(seg string) string {
		seg = reHashtag.ReplaceAllString(seg, `$1<span class="hashtag">#$2</span>`)
		seg = reMention.ReplaceAllString(seg, `$1<span class="mention">@$2</span>`)
		return seg
	})
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags and
// outside anchor contents, so link text is never re-formatted.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	inAnchor := false
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			if inAnchor {
				buf.WriteString(s)
			} else {
				buf.WriteString(fn(s))
			}
			break
		}
		if lt > 0 {
			if inAnchor {
				buf.WriteString(s[:lt])
			} else {
				buf.WriteString(fn(s[:lt]))
			}
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		tag := s[lt : lt+gt+1]
		switch {
		case strings.HasPrefix(tag, "<a "):
			inAnchor = true
		case tag == "</a>":
			inAnchor = false
		}
		buf.WriteString(tag)
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// SafeURL validates raw for use in an href. Only http and https are kept.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Host == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// LinkHref turns the free-text profile link ("example.com/shop") into an
// href, or "" when it cannot be one.
func LinkHref(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	return SafeURL(link)
}

// LinkLabel strips the scheme and trailing slash for display.
func LinkLabel(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.Index(link, "://"); i >= 0 {
		link = link[i+3:]
	}
	return strings.TrimSuffix(link, "/")
}
