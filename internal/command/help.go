package command

import (
	"errors"
	"strings"
)

// ErrNotFound means a help query named neither a command nor a module.
var ErrNotFound = errors.New("command: not found")

const (
	NoName        = "No name provided for this command."
	NoDescription = "No description provided for this command."
	NoUsage       = "No usage instructions provided for this command."
)

// HelpKind selects which part of a HelpView is populated.
type HelpKind int

const (
	HelpSummary HelpKind = iota
	HelpDetail
	HelpModule
)

// ModuleSummary is one line of the summary view.
type ModuleSummary struct {
	Module Module
	Count  int
}

// CommandDetail is the full description of one command.
type CommandDetail struct {
	Name        string
	Description string
	Aliases     string
	Usage       string
	MoreUsage   []string
}

// HelpView is the transport-free result of a help query.
type HelpView struct {
	Kind     HelpKind
	Modules  []ModuleSummary
	Detail   CommandDetail
	Module   Module
	Commands []Descriptor
}

// BuildHelpView answers a help query. Without arguments it summarizes every
// module that has commands. With one argument it describes the command with
// that alias (tried as typed, then lowercased), or else lists the first
// module with commands whose display name contains the argument
// (case-insensitive).
func (r *Registry) BuildHelpView(args []string) (HelpView, error) {
	arg := ""
	if len(args) > 0 {
		arg = strings.TrimSpace(args[0])
	}
	if arg == "" {
		return r.summary(), nil
	}

	query := strings.ToLower(arg)
	for _, alias := range []string{arg, query} {
		if c, ok := r.Lookup(alias); ok {
			return HelpView{Kind: HelpDetail, Detail: detail(c.Describe())}, nil
		}
	}

	for _, m := range Modules() {
		if !strings.Contains(strings.ToLower(m.Name()), query) {
			continue
		}
		cmds := r.ListByModule(m)
		if len(cmds) == 0 {
			continue
		}
		view := HelpView{Kind: HelpModule, Module: m}
		for _, c := range cmds {
			view.Commands = append(view.Commands, c.Describe())
		}
		return view, nil
	}
	return HelpView{}, ErrNotFound
}

func (r *Registry) summary() HelpView {
	view := HelpView{Kind: HelpSummary}
	for _, m := range Modules() {
		if n := len(r.ListByModule(m)); n > 0 {
			view.Modules = append(view.Modules, ModuleSummary{Module: m, Count: n})
		}
	}
	return view
}

func detail(d Descriptor) CommandDetail {
	cd := CommandDetail{
		Name:        orDefault(d.Name, NoName),
		Description: orDefault(d.Description, NoDescription),
		Aliases:     strings.Join(d.Aliases, ", "),
		Usage:       NoUsage,
	}
	if len(d.Usage) > 0 {
		cd.Usage = d.Usage[0]
		cd.MoreUsage = append([]string(nil), d.Usage[1:]...)
	}
	return cd
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
