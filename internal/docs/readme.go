// Package docs renders the command reference from a command registry.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"aridcore/internal/command"
)

// DefaultTemplate is used when no template file is given.
const DefaultTemplate = `# {{ .AppName }}

Commands use the prefix ` + "`{{ .Prefix }}`" + `. Send ` + "`{{ .Prefix }}help <command>`" + ` for details.

{{ .CommandSections }}`

// Section is one module of the reference.
type Section struct {
	Module   command.Module
	Commands []command.Descriptor
}

// Sections groups the registry by module in display order. Empty modules
// are left out.
func Sections(reg *command.Registry) []Section {
	var out []Section
	for _, m := range command.Modules() {
		cmds := reg.ListByModule(m)
		if len(cmds) == 0 {
			continue
		}
		s := Section{Module: m}
		for _, c := range cmds {
			s.Commands = append(s.Commands, c.Describe())
		}
		out = append(out, s)
	}
	return out
}

// Markdown renders the command sections.
func Markdown(reg *command.Registry, prefix string) string {
	var buf bytes.Buffer
	for i, s := range Sections(reg) {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### %s\n\n", s.Module.Name())
		for _, d := range s.Commands {
			desc := d.Description
			if desc == "" {
				desc = command.NoDescription
			}
			fmt.Fprintf(&buf, "- **`%s%s`** %s", prefix, d.Canonical(), desc)
			if len(d.Aliases) > 1 {
				fmt.Fprintf(&buf, " (aliases: %s)", strings.Join(d.Aliases[1:], ", "))
			}
			if d.RequiresElevatedPermission {
				buf.WriteString(" *owner only*")
			}
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// Render executes tmpl with the rendered sections.
func Render(w io.Writer, tmpl, appName string, reg *command.Registry, prefix string) error {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	data := struct {
		AppName         string
		Prefix          string
		CommandSections string
	}{appName, prefix, Markdown(reg, prefix)}
	return t.Execute(w, data)
}

// UpdateReadme writes the reference to outPath. tmplPath "" selects
// DefaultTemplate.
func UpdateReadme(tmplPath, outPath, appName string, reg *command.Registry, prefix string) error {
	tmpl := DefaultTemplate
	if tmplPath != "" {
		data, err := os.ReadFile(tmplPath)
		if err != nil {
			return err
		}
		tmpl = string(data)
	}

	var buf bytes.Buffer
	if err := Render(&buf, tmpl, appName, reg, prefix); err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0644)
}
