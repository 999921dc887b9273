package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := newRootCmd("1.2.3")

	assert.Equal(t, "1.2.3", root.Version)

	agenda, _, err := root.Find([]string{"agenda"})
	require.NoError(t, err)
	assert.Equal(t, "agenda", agenda.Name())
	require.NotNil(t, agenda.Flags().Lookup("order-id"))
	require.NotNil(t, agenda.Flags().Lookup("date"))

	sandbox, _, err := root.Find([]string{"sandbox"})
	require.NoError(t, err)
	seed := sandbox.Flags().Lookup("seed")
	require.NotNil(t, seed)
	assert.Equal(t, "true", seed.DefValue)
}

func TestAgendaRejectsInvalidDate(t *testing.T) {
	root := newRootCmd("test")
	root.SetArgs([]string{"agenda", "--date", "2024-13-01"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")
}
