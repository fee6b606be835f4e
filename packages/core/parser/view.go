package parser

import (
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

// View selects how masked values render.
type View int

const (
	// DisplayView shows display text. It is the only view fit for logs,
	// terminals and persisted artifacts.
	DisplayView View = iota
	// ExecutionView reveals real values for the transport call.
	ExecutionView
)

func (v View) String() string {
	if v == ExecutionView {
		return "execution"
	}
	return "display"
}

// HeaderField is a rendered header.
type HeaderField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ValueText renders a URL or header value in the given view.
func ValueText(v Value, meta *Metadata, view View) string {
	return valueText(v, meta.Registry, view == ExecutionView)
}

func valueText(v Value, reg *sentinel.Registry, reveal bool) string {
	switch v := v.(type) {
	case *Text:
		return v.Text
	case *Masked:
		if reveal {
			return reg.Text(v.Index, true)
		}
		return v.Display
	case *Values:
		var sb strings.Builder
		for _, part := range v.Parts {
			sb.WriteString(valueText(part, reg, reveal))
		}
		return sb.String()
	default:
		return ""
	}
}

// URL renders the request URL, or "" when the request line failed.
func (d *Document) URL(meta *Metadata, view View) string {
	r, ok := d.Request.(*RequestNode)
	if !ok {
		return ""
	}
	return ValueText(r.URL, meta, view)
}

// HeaderValues renders the parsed headers in source order. Error nodes are
// skipped.
func (d *Document) HeaderValues(meta *Metadata, view View) []HeaderField {
	var fields []HeaderField
	for _, h := range d.Headers {
		if node, ok := h.(*HeaderNode); ok {
			fields = append(fields, HeaderField{Name: node.Name, Value: ValueText(node.Value, meta, view)})
		}
	}
	return fields
}

// BodyText renders the body, or "" when there is none.
func (d *Document) BodyText(meta *Metadata, view View) string {
	return d.Body.Text(meta.Registry, view == ExecutionView)
}

// Render writes the request back as HTTP text. Error nodes are left out.
func Render(d *Document, meta *Metadata, view View) string {
	var sb strings.Builder
	if r, ok := d.Request.(*RequestNode); ok {
		sb.WriteString(r.Method)
		sb.WriteByte(' ')
		sb.WriteString(ValueText(r.URL, meta, view))
		sb.WriteByte(' ')
		sb.WriteString(r.Protocol)
		sb.WriteByte('\n')
	}
	for _, h := range d.HeaderValues(meta, view) {
		sb.WriteString(h.Name)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteByte('\n')
	}
	if d.Body != nil {
		sb.WriteByte('\n')
		sb.WriteString(d.BodyText(meta, view))
	}
	return sb.String()
}
