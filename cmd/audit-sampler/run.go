package main

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/PyBalance/Audit-Sampling/internal/config"
	"github.com/PyBalance/Audit-Sampling/internal/journal"
	"github.com/PyBalance/Audit-Sampling/internal/report"
	"github.com/PyBalance/Audit-Sampling/internal/sampling"
	"github.com/PyBalance/Audit-Sampling/pkg/constants"
	"github.com/PyBalance/Audit-Sampling/pkg/datetime"
)

func run(opts cliOptions, seedSet bool) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	var conf *config.Configuration
	if opts.configPath != "" {
		var err error
		conf, err = config.LoadConfiguration(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
		}
	}

	var logging config.LoggingConfig
	if conf != nil {
		logging = conf.Logging
	}
	logger, err := initializeLogger(logging, opts.logLevel, opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	start, err := datetime.ParseFlexible(opts.start)
	if err != nil {
		return fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := datetime.ParseFlexible(opts.end)
	if err != nil {
		return fmt.Errorf("failed to parse end date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", opts.end, opts.start)
	}
	period := sampling.Period{Start: start, End: end}

	data, err := journal.Load(opts.journal)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	subjectCol, ok := journal.FindReportSubjectColumn(data.Headers)
	if !ok {
		return fmt.Errorf("ledger is missing the 报表科目 (report subject) column required for population grouping")
	}

	displayHeaders := selectHeaders(data.Headers, opts.columns)
	accounts := targetAccounts(conf, data, subjectCol, opts.accounts)
	if len(accounts) == 0 {
		return fmt.Errorf("no accounts matched the request")
	}

	var seed *int64
	if seedSet {
		seed = &opts.seed
	}
	engine := sampling.NewEngine(logger)

	var results []report.PopulationResult
	var summary []report.SummaryRow
	var failed []string
	for _, account := range accounts {
		for _, rule := range config.ResolveRules(conf, account) {
			population := engine.BuildPopulation(data, period, account, rule)
			if len(population) == 0 {
				logger.Warn("population is empty; skipped",
					zap.String("op", "main.run"),
					zap.String("population", rule.PopulationName),
				)
				summary = append(summary, report.SummaryRow{Name: rule.PopulationName})
				continue
			}

			var sampled []journal.Record
			switch opts.method {
			case constants.MethodMUS:
				te := opts.tolerableMisstatement
				if te == 0 {
					te = opts.materiality
				}
				sampled, _, err = engine.PerformMUS(population, rule, data.Headers, sampling.MUSParams{
					TolerableError:  te,
					ExpectedError:   te * opts.riskFactor,
					ConfidenceLevel: opts.confidence,
					Seed:            seed,
				})
				if err != nil {
					// A failed population is reported but does not abort the rest.
					logger.Error("MUS sampling failed",
						zap.String("op", "main.run"),
						zap.String("population", rule.PopulationName),
						zap.Error(err),
					)
					failed = append(failed, rule.PopulationName)
					summary = append(summary, report.SummaryRow{Name: rule.PopulationName, PopulationSize: len(population)})
					continue
				}
			case constants.MethodRandom:
				sampled = engine.PerformRandom(population, opts.size, seed)
			}

			summary = append(summary, report.SummaryRow{
				Name:           rule.PopulationName,
				PopulationSize: len(population),
				SampleSize:     len(sampled),
			})
			if len(sampled) > 0 {
				results = append(results, report.PopulationResult{
					Name:           rule.PopulationName,
					Sampled:        sampled,
					PopulationSize: len(population),
				})
			}
		}
	}

	ctx := report.Context{
		Method: opts.method,
		Start:  opts.start,
		End:    opts.end,
		Note:   parameterNote(opts),
	}
	if err := report.Write(results, summary, opts.output, displayHeaders, ctx); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.verbose {
		report.PrintSummary(summary, ctx)
	}
	fmt.Println(opts.output)

	if len(failed) > 0 {
		return fmt.Errorf("sampling failed for %d population(s): %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func validateOptions(opts cliOptions) error {
	switch opts.method {
	case constants.MethodMUS:
		if opts.materiality <= 0 && opts.tolerableMisstatement <= 0 {
			return fmt.Errorf("MUS requires --materiality or --tolerable-misstatement")
		}
		if opts.confidence <= 0 || opts.confidence >= 1 {
			return fmt.Errorf("--confidence must be between 0 and 1, e.g. 0.90 or 0.95")
		}
		if opts.riskFactor < 0 {
			return fmt.Errorf("--risk-factor must be >= 0")
		}
	case constants.MethodRandom:
		if opts.size <= 0 {
			return fmt.Errorf("random sampling requires --size > 0")
		}
	default:
		return fmt.Errorf("--method must be %s or %s", constants.MethodMUS, constants.MethodRandom)
	}
	return nil
}

// selectHeaders resolves the output columns: "all" keeps every ledger column,
// an explicit list keeps exactly those, and +col tokens extend the default
// set. Input header order is always preserved.
func selectHeaders(headers []string, columns []string) []string {
	var tokens []string
	for _, item := range columns {
		for _, t := range strings.Split(item, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}

	isAll := false
	hasExplicit := false
	for _, t := range tokens {
		if strings.EqualFold(t, "all") {
			isAll = true
		} else if !strings.HasPrefix(t, "+") {
			hasExplicit = true
		}
	}

	want := make(map[string]bool)
	switch {
	case isAll:
		return headers
	case hasExplicit:
		for _, t := range tokens {
			if !strings.EqualFold(t, "all") {
				want[strings.TrimPrefix(t, "+")] = true
			}
		}
	default:
		for _, c := range constants.DefaultColumns {
			want[c] = true
		}
		for _, t := range tokens {
			if strings.HasPrefix(t, "+") {
				want[strings.TrimPrefix(t, "+")] = true
			}
		}
	}

	var selected []string
	for _, h := range headers {
		if want[h] {
			selected = append(selected, h)
		}
	}
	return selected
}

// targetAccounts resolves which report-subject accounts to sample. With a
// configuration the configured populations drive the list; otherwise the
// ledger's report-subject column enumerates it. An empty or "all" request
// keeps every account.
func targetAccounts(conf *config.Configuration, data *journal.Data, subjectCol string, requested []string) []string {
	wantAll := len(requested) == 0
	for _, a := range requested {
		if strings.EqualFold(a, "all") {
			wantAll = true
		}
	}

	if conf != nil && len(conf.Populations) > 0 {
		if wantAll {
			return conf.Accounts()
		}
		return requested
	}

	seen := make(map[string]bool)
	var all []string
	for _, r := range data.Rows {
		v := strings.TrimSpace(r.Values[subjectCol])
		if v != "" && !seen[v] {
			seen[v] = true
			all = append(all, v)
		}
	}
	sort.Strings(all)
	if wantAll {
		return all
	}
	want := make(map[string]bool, len(requested))
	for _, a := range requested {
		want[a] = true
	}
	var filtered []string
	for _, a := range all {
		if want[a] {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func parameterNote(opts cliOptions) string {
	if opts.method == constants.MethodMUS {
		te := opts.tolerableMisstatement
		if te == 0 {
			te = opts.materiality
		}
		return fmt.Sprintf("TE=%.2f, risk=%.2f, conf=%.2f", te, opts.riskFactor, opts.confidence)
	}
	return fmt.Sprintf("size=%d", opts.size)
}
