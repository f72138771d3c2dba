package gateway

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aridcore/pkg/retrylimit"
)

func restError(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code, Status: http.StatusText(code)}}
}

func TestClassifyREST(t *testing.T) {
	assert.NoError(t, classifyREST(nil))

	plain := errors.New("network down")
	assert.Same(t, plain, classifyREST(plain))

	var fatal *retrylimit.FatalError
	assert.True(t, errors.As(classifyREST(restError(http.StatusForbidden)), &fatal))

	var status retrylimit.HTTPError
	require.True(t, errors.As(classifyREST(restError(http.StatusTooManyRequests)), &status))
	assert.Equal(t, http.StatusTooManyRequests, status.StatusCode())

	require.True(t, errors.As(classifyREST(restError(http.StatusBadGateway)), &status))
	assert.Equal(t, http.StatusBadGateway, status.StatusCode())
}

func TestHashDefinitionsIgnoresOrderAndIDs(t *testing.T) {
	a := []*discordgo.ApplicationCommand{
		{ID: "1", Name: "help", Description: "Lists commands."},
		{ID: "2", Name: "ping", Description: "Pong."},
	}
	b := []*discordgo.ApplicationCommand{
		{Name: "ping", Description: "Pong."},
		{Name: "help", Description: "Lists commands."},
	}
	assert.Equal(t, hashDefinitions(a), hashDefinitions(b))

	b[0].Description = "Pong!"
	assert.NotEqual(t, hashDefinitions(a), hashDefinitions(b))
}

func TestConnectConfiguresSession(t *testing.T) {
	conn, err := NewDiscord().Connect(Options{
		Token:         "token",
		Intents:       RequiredIntents,
		AutoReconnect: true,
		ShardID:       1,
		ShardCount:    3,
	})
	require.NoError(t, err)

	dc := conn.(*discordConn)
	assert.Equal(t, "Bot token", dc.s.Token)
	assert.Equal(t, RequiredIntents, dc.s.Identify.Intents)
	assert.True(t, dc.s.ShouldReconnectOnError)
	assert.Equal(t, 1, conn.ShardID())
	assert.Equal(t, 3, dc.s.ShardCount)
	assert.Equal(t, DefaultReadyTimeout, dc.readyTimeout)
}

func TestRemoveHandlers(t *testing.T) {
	conn, err := NewDiscord().Connect(Options{Token: "token"})
	require.NoError(t, err)

	_, err = conn.RemoveHandlers()
	assert.ErrorIs(t, err, ErrNoHandlers)

	conn.AddHandler(func(*discordgo.Session, *discordgo.MessageCreate) {})
	conn.AddHandler(func(*discordgo.Session, *discordgo.InteractionCreate) {})
	n, err := conn.RemoveHandlers()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
