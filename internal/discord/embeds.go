package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"aridcore/internal/command"
	"aridcore/internal/version"
)

// blank renders an empty embed field name or value.
const blank = "\u200b"

const helpColor = 0xff0000

func applyDefaults(e *discordgo.MessageEmbed, prefix string, now time.Time) {
	e.Footer = &discordgo.MessageEmbedFooter{Text: version.AppName + " by " + version.Author}
	e.Author = &discordgo.MessageEmbedAuthor{Name: fmt.Sprintf("Try `%shelp [command]` for more.", prefix)}
	e.Timestamp = now.Format(time.RFC3339)
}

// HelpEmbed renders a help view.
func HelpEmbed(view command.HelpView, prefix string, now time.Time) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Color: helpColor}
	applyDefaults(e, prefix, now)

	switch view.Kind {
	case command.HelpSummary:
		e.Title = "Modules Supported"
		for _, m := range view.Modules {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
				Name:   m.Module.Name(),
				Value:  fmt.Sprintf("%d commands active", m.Count),
				Inline: true,
			})
		}
		if len(e.Fields) == 0 {
			e.Description = "No commands are registered."
		}

	case command.HelpDetail:
		d := view.Detail
		e.Title = d.Name
		e.Fields = append(e.Fields,
			&discordgo.MessageEmbedField{Name: d.Description, Value: blank},
			&discordgo.MessageEmbedField{Name: "Aliases", Value: d.Aliases},
			&discordgo.MessageEmbedField{Name: "Usage", Value: command.ExpandUsage(d.Usage, prefix)},
		)
		for _, line := range d.MoreUsage {
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
				Name:  blank,
				Value: command.ExpandUsage(line, prefix),
			})
		}

	case command.HelpModule:
		e.Title = view.Module.Name()
		e.Description = view.Module.Description()
		for _, d := range view.Commands {
			name := d.Name
			if name == "" {
				name = d.Canonical()
			}
			value := d.Description
			if value == "" {
				value = blank
			}
			e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
		}
	}
	return e
}

// InfoEmbed describes the running core.
func InfoEmbed(prefix string, now time.Time) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Color: EmbedColor, Title: version.AppName}
	applyDefaults(e, prefix, now)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Version", Value: version.String(), Inline: true},
		{Name: "Current Prefix", Value: prefix, Inline: true},
		{Name: version.AppName + " Author", Value: version.Author, Inline: true},
	}
	return e
}

// NotExistMessage tells the user a help query matched nothing.
func NotExistMessage(query, prefix string) string {
	return fmt.Sprintf("The provided commands '**%s**' does not exist. Use `%scommands` to list all commands.", query, prefix)
}

// ErrorEmbed reports a failed command run.
func ErrorEmbed(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Description: fmt.Sprintf("Error running command: %v", err),
	}
}
