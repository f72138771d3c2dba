package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodes(t *testing.T) {
	want := map[Status]int{
		Friendly:        0,
		NoEvent:         -1,
		NoConnection:    -2,
		NoConfig:        -3,
		ConfigUnusable:  -4,
		UnableToConnect: -5,
	}
	for status, code := range want {
		assert.Equal(t, code, status.Code(), status.Name())
		assert.Equal(t, code != 0, status.IsError(), status.Name())
	}
	assert.Len(t, All(), len(want))
}

func TestErrorStatusesCarryReason(t *testing.T) {
	for _, s := range All() {
		if s.IsError() {
			assert.NotEmpty(t, s.Reason(), s.Name())
		}
	}
	assert.Empty(t, Friendly.Reason())
}

func TestHasConnection(t *testing.T) {
	assert.True(t, Friendly.HasConnection())
	assert.True(t, NoEvent.HasConnection())
	assert.True(t, NoConfig.HasConnection())
	assert.False(t, NoConnection.HasConnection())
	assert.False(t, ConfigUnusable.HasConnection())
	assert.False(t, UnableToConnect.HasConnection())
}
