package command

import (
	"errors"
	"strings"
)

var (
	// ErrNoMatch means the input does not name a registered command.
	ErrNoMatch = errors.New("command: no matching command")
	// ErrNotPermitted means the author may not run the matched command.
	ErrNotPermitted = errors.New("command: not permitted")
	// ErrIgnoredAuthor means the message came from a bot and bots are ignored.
	ErrIgnoredAuthor = errors.New("command: author ignored")
)

// TextMessage is the part of an inbound chat message resolution looks at.
type TextMessage struct {
	Content     string
	AuthorID    string
	AuthorIsBot bool
}

// ResolveOptions are the per-message settings for text resolution.
type ResolveOptions struct {
	Prefix        string
	OwnerID       string
	RespondToBots bool
}

// Match is a resolved text command.
type Match struct {
	Command Command
	// Alias is the alias the author typed.
	Alias string
	// Args are the tokens after the command token.
	Args []string
}

// ResolveText tokenizes msg on whitespace, strips the prefix from the first
// token and looks the rest up among all aliases. A match the author may not
// run yields ErrNotPermitted together with the match.
func (r *Registry) ResolveText(msg TextMessage, opts ResolveOptions) (Match, error) {
	if msg.AuthorIsBot && !opts.RespondToBots {
		return Match{}, ErrIgnoredAuthor
	}
	if opts.Prefix == "" {
		return Match{}, ErrNoMatch
	}

	tokens := strings.Fields(msg.Content)
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], opts.Prefix) {
		return Match{}, ErrNoMatch
	}
	alias := strings.TrimPrefix(tokens[0], opts.Prefix)
	if alias == "" {
		return Match{}, ErrNoMatch
	}

	c, ok := r.Lookup(alias)
	if !ok {
		return Match{}, ErrNoMatch
	}
	m := Match{Command: c, Alias: alias, Args: tokens[1:]}
	if !Permitted(c.Describe(), msg.AuthorID, opts.OwnerID) {
		return m, ErrNotPermitted
	}
	return m, nil
}

// ResolveInteraction matches name exactly against canonical aliases.
func (r *Registry) ResolveInteraction(name string) (Command, error) {
	c, ok := r.Get(name)
	if !ok {
		return nil, ErrNoMatch
	}
	return c, nil
}

// Permitted reports whether author may run a command described by d. The
// owner may run everything; others only commands without elevation.
func Permitted(d Descriptor, authorID, ownerID string) bool {
	if ownerID != "" && authorID == ownerID {
		return true
	}
	return !d.RequiresElevatedPermission
}
