// Package config defines the data structures for sampling-rule configuration
// and includes functions for loading and resolving the config.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Transaction directions recognized in rule configuration.
const (
	Debit  = "debit"
	Credit = "credit"
)

// Configuration holds all configuration for audit-sampler. The file is JSON;
// every field is optional.
type Configuration struct {
	Logging     LoggingConfig `json:"logging,omitempty"`
	Populations []Population  `json:"populations,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty"`      // debug, info, warn, error
	Format     string `json:"format,omitempty"`     // json, console
	OutputFile string `json:"outputFile,omitempty"` // optional file output
}

// Population groups the sampling rules for one report-subject account.
type Population struct {
	Account string `json:"account"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one sampled population within an account. All fields are
// optional: a missing transaction type expands into one debit and one credit
// rule, missing account codes disable code filtering, and a missing value
// column falls back to the debit/credit amount columns.
type Rule struct {
	PopulationName  string   `json:"populationName,omitempty"`
	AccountCodes    []string `json:"accountCodes,omitempty"`
	TransactionType string   `json:"transactionType,omitempty"`
	ValueColumn     string   `json:"valueColumn,omitempty"`
}

// ResolvedRule is a rule with defaults applied, ready for population
// building.
type ResolvedRule struct {
	PopulationName  string
	AccountCodes    []string
	TransactionType string
	ValueColumn     string
}

// LoadConfiguration takes a file path as input and loads the JSON-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	for _, pop := range configuration.Populations {
		if strings.TrimSpace(pop.Account) == "" {
			return nil, fmt.Errorf("population entry is missing an account name")
		}
		for _, rule := range pop.Rules {
			switch strings.ToLower(rule.TransactionType) {
			case "", Debit, Credit:
			default:
				return nil, fmt.Errorf("population %s: invalid transaction type %q", pop.Account, rule.TransactionType)
			}
		}
	}

	return &configuration, nil
}

// FindPopulation returns the configured population for an account, if any.
func (c *Configuration) FindPopulation(account string) (Population, bool) {
	if c == nil {
		return Population{}, false
	}
	for _, pop := range c.Populations {
		if pop.Account == account {
			return pop, true
		}
	}
	return Population{}, false
}

// Accounts returns the configured account names in file order.
func (c *Configuration) Accounts() []string {
	if c == nil {
		return nil
	}
	accounts := make([]string, 0, len(c.Populations))
	for _, pop := range c.Populations {
		accounts = append(accounts, pop.Account)
	}
	return accounts
}

// ResolveRules expands the rules for one account, applying defaults: without
// any configured rule the account splits into a credit and a debit
// population; a rule without a transaction type does the same; population
// names default to <account>_借方 / <account>_贷方.
func ResolveRules(conf *Configuration, account string) []ResolvedRule {
	defaults := []ResolvedRule{
		{PopulationName: account + "_贷方", TransactionType: Credit},
		{PopulationName: account + "_借方", TransactionType: Debit},
	}

	pop, ok := Population{}, false
	if conf != nil {
		pop, ok = conf.FindPopulation(account)
	}
	if !ok || len(pop.Rules) == 0 {
		return defaults
	}

	var resolved []ResolvedRule
	for _, rule := range pop.Rules {
		types := []string{Credit, Debit}
		if t := strings.ToLower(rule.TransactionType); t == Debit || t == Credit {
			types = []string{t}
		}
		for _, t := range types {
			name := rule.PopulationName
			if name == "" {
				if t == Debit {
					name = account + "_借方"
				} else {
					name = account + "_贷方"
				}
			}
			codes := make([]string, 0, len(rule.AccountCodes))
			for _, code := range rule.AccountCodes {
				if code = strings.TrimSpace(code); code != "" {
					codes = append(codes, code)
				}
			}
			resolved = append(resolved, ResolvedRule{
				PopulationName:  name,
				AccountCodes:    codes,
				TransactionType: t,
				ValueColumn:     rule.ValueColumn,
			})
		}
	}
	if len(resolved) == 0 {
		return defaults
	}
	return resolved
}
