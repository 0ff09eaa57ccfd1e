package report

import (
	"fmt"
	"strings"
	"text/template"
)

// Template is a format string referring to variables as {{.name}}.
// Referencing an unknown variable is an error.
type Template struct {
	tmpl *template.Template
}

func ParseTemplate(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

func (t *Template) Evaluate(vars map[string]string) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, vars); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseTemplates parses one template per value, named after its position.
func ParseTemplates(values []string) ([]*Template, error) {
	templates := make([]*Template, 0, len(values))
	for i, value := range values {
		tmpl, err := ParseTemplate(fmt.Sprintf("output.values[%d]", i), value)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
