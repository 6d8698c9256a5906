package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectAccount lets the user pick one of the configured accounts and returns its index
func (s *SelectorAdapter) SelectAccount(ctx context.Context, accounts []models.AccountCredential, prompt string) (int, error) {
	if s.config.NonInteractive {
		return 0, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(accounts) == 0 {
		return 0, fmt.Errorf("no accounts configured for network %s", s.config.NetworkName())
	}
	if len(accounts) == 1 {
		return accounts[0].Index, nil
	}

	options := FormatAccountOptions(accounts, s.config.AccountIndex)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: len(options) > 10,
		Searcher:          FuzzySearcher(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return accounts[index].Index, nil
}

// FormatAccountOptions creates display strings for account selection
func FormatAccountOptions(accounts []models.AccountCredential, active int) []string {
	options := make([]string, len(accounts))
	for i, acc := range accounts {
		address := acc.Address
		if address == "" {
			address = color.New(color.FgRed).Sprint("<missing address>")
		}
		option := fmt.Sprintf("[%d] %s", acc.Index, address)
		if acc.Index == active {
			option += color.New(color.FgYellow).Sprint(" (active)")
		}
		options[i] = option
	}
	return options
}

// FuzzySearcher returns a promptui searcher doing substring then fuzzy matching
func FuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.AccountSelector = (*SelectorAdapter)(nil)
