package command

import "fmt"

// Module groups commands for help listings.
type Module int

const (
	Generic Module = iota
	Admin
	Fun
	Utility
	Music
)

type moduleInfo struct {
	name        string
	description string
}

var moduleInfos = map[Module]moduleInfo{
	Generic: {"Generic Commands", "Generic commands that provide information or basic functionality."},
	Admin:   {"Administrative Commands", "Commands for the bot owner or server administration."},
	Fun:     {"Fun Commands", "Commands to have fun with."},
	Utility: {"Utility Commands", "Useful tools and helpers."},
	Music:   {"Music Commands", "Commands to control music playback."},
}

// Modules returns every module in display order.
func Modules() []Module {
	return []Module{Generic, Admin, Fun, Utility, Music}
}

// Name is the display name shown in help views.
func (m Module) Name() string {
	if info, ok := moduleInfos[m]; ok {
		return info.name
	}
	return fmt.Sprintf("Module(%d)", int(m))
}

func (m Module) Description() string {
	return moduleInfos[m].description
}

func (m Module) String() string { return m.Name() }
