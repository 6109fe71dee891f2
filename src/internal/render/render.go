// Package render turns resolution results into device configuration text.
package render

import (
	"strings"

	"github.com/maksimkurb/urlresolver/src/internal/resolver"
	"github.com/valyala/fasttemplate"
)

// Separator closes every rendered block: "# " and 40 dashes.
const Separator = "# ----------------------------------------"

// Renderer renders one dialect with a fixed filter name.
type Renderer struct {
	dialect    Dialect
	filterName string

	header *fasttemplate.Template
	entry  *fasttemplate.Template
	footer *fasttemplate.Template
}

// NewRenderer prepares the templates of dialect.
func NewRenderer(dialect Dialect, filterName string) *Renderer {
	def := dialectDefs[dialect]
	return &Renderer{
		dialect:    dialect,
		filterName: filterName,
		header:     compile(def.header),
		entry:      compile(def.entry),
		footer:     compile(def.footer),
	}
}

func compile(template string) *fasttemplate.Template {
	if template == "" {
		return nil
	}
	return fasttemplate.New(template, "{{", "}}")
}

// Dialect returns the dialect being rendered.
func (r *Renderer) Dialect() Dialect {
	return r.dialect
}

// Header returns the text written once before the first block.
func (r *Renderer) Header() string {
	return r.execute(r.header, "")
}

// Footer returns the text written once after the last block.
func (r *Renderer) Footer() string {
	return r.execute(r.footer, "")
}

// Block renders one input line: a comment echoing originalLine, one entry per
// address (IPv4 first) and the separator. An empty result keeps the comment
// and separator. PlainText writes the hostname instead of addresses.
func (r *Renderer) Block(hostname, originalLine string, result resolver.Result) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(originalLine)
	sb.WriteByte('\n')

	if r.dialect == PlainText {
		sb.WriteString(hostname)
		sb.WriteByte('\n')
	} else {
		for _, ip := range result.Addresses() {
			sb.WriteString(r.execute(r.entry, ip))
		}
	}

	sb.WriteString(Separator)
	sb.WriteByte('\n')
	return sb.String()
}

func (r *Renderer) execute(t *fasttemplate.Template, ip string) string {
	if t == nil {
		return ""
	}
	return t.ExecuteString(map[string]interface{}{
		TMPL_FILTER_NAME: r.filterName,
		TMPL_IP:          ip,
	})
}

// Render renders the block of one input line in dialect.
func Render(hostname, originalLine string, result resolver.Result, dialect Dialect, filterName string) string {
	return NewRenderer(dialect, filterName).Block(hostname, originalLine, result)
}

// Hostname renders a line in normalize-only mode: the bare hostname, no framing.
func Hostname(hostname string) string {
	return hostname + "\n"
}
