// Package shutdown enumerates the causes a bot process can terminate for.
// The cause alone decides the process exit code.
package shutdown

// Status is one termination cause. Statuses are comparable with ==.
type Status struct {
	name   string
	reason string
	code   int
}

var (
	Friendly        = Status{"friendly", "", 0}
	NoEvent         = Status{"no-event-listener", "No event listeners were found.", -1}
	NoConnection    = Status{"no-connection", "The gateway connection could not be established or found.", -2}
	NoConfig        = Status{"no-config", "The configuration file does not exist. Please restart with a defined configuration file.", -3}
	ConfigUnusable  = Status{"config-unusable", "The configuration was not usable.", -4}
	UnableToConnect = Status{"connect-failure", "Unable to connect to the server.", -5}
)

// All returns every declared status in code order.
func All() []Status {
	return []Status{Friendly, NoEvent, NoConnection, NoConfig, ConfigUnusable, UnableToConnect}
}

func (s Status) Name() string   { return s.name }
func (s Status) Reason() string { return s.reason }
func (s Status) Code() int      { return s.code }
func (s Status) String() string { return s.name }

// IsError reports whether the status ends the process with a failure code.
func (s Status) IsError() bool { return s.code != 0 }

// HasConnection reports whether a live gateway connection may exist when the
// process stops for this cause, i.e. whether shutdown should close it.
func (s Status) HasConnection() bool {
	switch s {
	case NoConnection, ConfigUnusable, UnableToConnect:
		return false
	}
	return true
}
