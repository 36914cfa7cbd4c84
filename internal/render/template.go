package render

import (
	"errors"
	"html/template"
	"strings"
)

var ErrUnknownSection = errors.New("unknown template section")

// Template renders one line item's markup from named sections. Sections
// are rendered in a fixed order and only when enabled in contents.
type Template struct {
	order    []string
	contents map[string]bool
	sections map[string]*template.Template
}

func NewTemplate(templates map[string]string, contents map[string]bool, order []string) (*Template, error) {
	sections := make(map[string]*template.Template, len(templates))
	for name, src := range templates {
		parsed, err := template.New(name).Parse(src)
		if err != nil {
			return nil, err
		}
		sections[name] = parsed
	}
	for _, name := range order {
		if contents[name] {
			if _, ok := sections[name]; !ok {
				return nil, ErrUnknownSection
			}
		}
	}
	return &Template{
		order:    order,
		contents: contents,
		sections: sections,
	}, nil
}

// Render executes every enabled section against data, concatenates the
// output in section order, and applies wrapper to the result when given.
func (t *Template) Render(data any, wrapper func(string) string) (string, error) {
	var b strings.Builder
	for _, name := range t.order {
		if !t.contents[name] {
			continue
		}
		if err := t.sections[name].Execute(&b, data); err != nil {
			return "", err
		}
	}
	out := b.String()
	if wrapper != nil {
		out = wrapper(out)
	}
	return out, nil
}
