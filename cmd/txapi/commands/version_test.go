package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/txapi-io/txapi-client/cmd/txapi/commands"
)

func TestNewVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewVersionCommand("1.2.3", "abc1234", "2026-01-01")
	assert.Equal(t, "version", cmd.Use)
	assert.Equal(t, "Display version information", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestNewActionsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewActionsCommand()
	assert.Equal(t, "actions [COLLECTION...]", cmd.Use)
	assert.Equal(t, "Show the client action directory", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}
