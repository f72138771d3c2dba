package config

// Keys of the seeded bot section.
const (
	KeyToken      = "token"
	KeyPrefix     = "prefix"
	KeyDebug      = "debug_mode"
	KeyGameStatus = "game_status"
	KeyShards     = "shards"
	KeyOwnerID    = "owner_id"
)

const (
	TokenPlaceholder   = "place your bots token here"
	OwnerIDPlaceholder = "place your discord id here"
	DefaultPrefix      = "e!"
	DefaultGameStatus  = "with my friends"
)

// Default is one seeded entry of a fresh document.
type Default struct {
	Key   string
	Value string
}

// Defaults is the entry set written when the document is first created.
var Defaults = []Default{
	{KeyToken, TokenPlaceholder},
	{KeyPrefix, DefaultPrefix},
	{KeyDebug, "true"},
	{KeyGameStatus, DefaultGameStatus},
	{KeyShards, "0"},
	{KeyOwnerID, OwnerIDPlaceholder},
}

// DefaultValue returns the seeded value for key.
func DefaultValue(key string) (string, bool) {
	for _, d := range Defaults {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

func defaultMap() map[string]string {
	m := make(map[string]string, len(Defaults))
	for _, d := range Defaults {
		m[d.Key] = d.Value
	}
	return m
}
