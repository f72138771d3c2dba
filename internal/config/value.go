package config

// Value is the result of a lookup. A key absent from the document yields
// Missing, which no stored string can be mistaken for.
type Value struct {
	s  string
	ok bool
}

// Missing is the value of an absent key.
var Missing = Value{}

// Present wraps a stored string.
func Present(s string) Value { return Value{s: s, ok: true} }

// Get returns the stored string and whether the key was present.
func (v Value) Get() (string, bool) { return v.s, v.ok }

// IsMissing reports whether the key was absent.
func (v Value) IsMissing() bool { return !v.ok }

// Or returns the stored string, or def when the key was absent.
func (v Value) Or(def string) string {
	if !v.ok {
		return def
	}
	return v.s
}

func (v Value) String() string {
	if !v.ok {
		return "<missing>"
	}
	return v.s
}
