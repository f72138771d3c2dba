package version

// Set at link time with -ldflags "-X aridcore/internal/version.Version=...".
var (
	AppName = "AridCore"
	Version = "0.2.0"
	Build   = "dev"
	Author  = "aristraea"
)

// String returns the version and build joined the way the banner prints them.
func String() string {
	return Version + "-" + Build
}
