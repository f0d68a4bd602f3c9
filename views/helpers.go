package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

func esc(s string) string { return templ.EscapeString(s) }

// component adapts a builder function into a templ.Component.
func component(build func(ctx context.Context, b *strings.Builder) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if err := build(ctx, &b); err != nil {
			return err
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(esc(value))
	b.WriteString(`"`)
}

func itoa(i int) string { return strconv.Itoa(i) }
