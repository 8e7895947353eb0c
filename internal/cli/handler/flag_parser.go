// Package handler provides flag parsing utilities
package handler

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
	"github.com/bbct/bbct/internal/models"
)

// FlagParser provides common flag extraction patterns
type FlagParser struct {
	cmd *cobra.Command
}

// NewFlagParser creates a new flag parser
func NewFlagParser(cmd *cobra.Command) *FlagParser {
	return &FlagParser{cmd: cmd}
}

// Changed reports whether the flag exists and was set
func (p *FlagParser) Changed(flagName string) bool {
	f := p.cmd.Flags().Lookup(flagName)
	return f != nil && f.Changed
}

// CardID takes the card ID from the first positional argument or --id
func (p *FlagParser) CardID(args []string) (int64, error) {
	if len(args) > 0 {
		return cli.ParseCardID(args[0])
	}
	if !p.Changed("id") {
		return 0, cli.UsageError("a card ID is required")
	}
	id, err := p.cmd.Flags().GetInt64("id")
	if err != nil {
		return 0, fmt.Errorf("failed to parse id flag: %w", err)
	}
	if id <= 0 {
		return 0, cli.UsageError("card ID must be a positive integer, got %d", id)
	}
	return id, nil
}

// CardIDs collects identifiers from positional arguments and --id
func (p *FlagParser) CardIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		id, err := cli.ParseCardID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if p.Changed("id") {
		flagIDs, err := p.cmd.Flags().GetInt64Slice("id")
		if err != nil {
			return nil, fmt.Errorf("failed to parse id flag: %w", err)
		}
		for _, id := range flagIDs {
			if id <= 0 {
				return nil, cli.UsageError("card ID must be a positive integer, got %d", id)
			}
		}
		ids = append(ids, flagIDs...)
	}
	if len(ids) == 0 {
		return nil, cli.UsageError("at least one card ID is required")
	}
	return ids, nil
}

// Filter builds a card filter from --brand, --year, --number, --player and --team.
// Unset flags match everything. With --contains every text pattern is wrapped in %.
func (p *FlagParser) Filter() (models.CardFilter, error) {
	var filter models.CardFilter

	contains := false
	if p.Changed("contains") {
		contains, _ = p.cmd.Flags().GetBool("contains")
	}
	pattern := func(s string) string {
		if contains {
			return models.Contains(s)
		}
		return s
	}

	text := []struct {
		flag  string
		apply func(models.CardFilter, string) models.CardFilter
	}{
		{"brand", models.CardFilter.WithBrand},
		{"number", models.CardFilter.WithNumber},
		{"player", models.CardFilter.WithPlayerName},
		{"team", models.CardFilter.WithTeam},
	}
	for _, t := range text {
		if !p.Changed(t.flag) {
			continue
		}
		v, err := p.cmd.Flags().GetString(t.flag)
		if err != nil {
			return filter, fmt.Errorf("failed to parse %s flag: %w", t.flag, err)
		}
		filter = t.apply(filter, pattern(v))
	}

	if p.Changed("year") {
		year, err := p.cmd.Flags().GetInt("year")
		if err != nil {
			return filter, fmt.Errorf("failed to parse year flag: %w", err)
		}
		filter = filter.WithYear(year)
	}

	return filter, nil
}

// String returns a card field value with surrounding spaces trimmed, and
// whether the flag was set. Filter patterns go through Filter, which keeps them as given.
func (p *FlagParser) String(flagName string) (string, bool, error) {
	if !p.Changed(flagName) {
		return "", false, nil
	}
	v, err := p.cmd.Flags().GetString(flagName)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return strings.TrimSpace(v), true, nil
}

// Int returns an int flag and whether it was set
func (p *FlagParser) Int(flagName string) (int, bool, error) {
	if !p.Changed(flagName) {
		return 0, false, nil
	}
	v, err := p.cmd.Flags().GetInt(flagName)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return v, true, nil
}

// Bool returns a bool flag and whether it was set
func (p *FlagParser) Bool(flagName string) (bool, bool, error) {
	if !p.Changed(flagName) {
		return false, false, nil
	}
	v, err := p.cmd.Flags().GetBool(flagName)
	if err != nil {
		return false, false, fmt.Errorf("failed to parse %s flag: %w", flagName, err)
	}
	return v, true, nil
}

// Cents parses a dollar amount flag into cents
func (p *FlagParser) Cents(flagName string) (int, bool, error) {
	s, ok, err := p.String(flagName)
	if err != nil || !ok {
		return 0, ok, err
	}
	cents, err := cli.ParseCents(s)
	if err != nil {
		return 0, false, cli.UsageError("%s: %v", flagName, err)
	}
	return cents, true, nil
}
