package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

func TestFuzzySearcher(t *testing.T) {
	items := []string{"[0] 0x0abc", "[1] 0x0def", "[2] 0x0123"}
	search := FuzzySearcher(items)

	assert.True(t, search("", 0))
	assert.True(t, search("DEF", 1))
	assert.False(t, search("def", 0))
	assert.True(t, search("0ac", 0))
}

func TestFormatAccountOptions(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	options := FormatAccountOptions([]models.AccountCredential{
		{Index: 0, Address: "0x0abc"},
		{Index: 1},
	}, 0)
	assert.Equal(t, []string{"[0] 0x0abc (active)", "[1] <missing address>"}, options)
}

func TestSelectAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("non interactive", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
		_, err := s.SelectAccount(ctx, []models.AccountCredential{{Index: 0}}, "Select account")
		assert.Error(t, err)
	})

	t.Run("single account is chosen without prompting", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		index, err := s.SelectAccount(ctx, []models.AccountCredential{{Index: 3, Address: "0x1"}}, "Select account")
		require.NoError(t, err)
		assert.Equal(t, 3, index)
	})

	t.Run("no accounts", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{Network: &config.Network{Name: "local"}})
		_, err := s.SelectAccount(ctx, nil, "Select account")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "local")
	})
}
