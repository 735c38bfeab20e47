package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	chiTransport "github.com/kailas-cloud/civix/internal/transport/chi"
)

var (
	queryState     string
	queryYear      string
	queryIndicator string
	queryCity      string
	placeCategory  string
	jsonOutput     bool
)

var queryCmd = &cobra.Command{
	Use:   "query <category>",
	Short: "Query one indicator category",
	Long: `Reads the indicators of one category, filtered like GET /api/v1/data/{category}.

Example:
  civix query economy --state "Uttar Pradesh" --indicator gdp
  civix query environment --city Lucknow --year 2023`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var placeCmd = &cobra.Command{
	Use:   "place <slug-or-name>",
	Short: "Show every indicator for one state or district, grouped by category",
	Long: `Reads all indicators for one geography, matched case-insensitively.
Hyphenated slugs are converted first: uttar-pradesh becomes "Uttar Pradesh".`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List the indicator alias vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tables := alias.Default()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), tables)
		}
		return writeAliases(cmd.OutOrStdout(), tables)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryState, "state", "", "geography name, exact match")
	queryCmd.Flags().StringVar(&queryYear, "year", "", "period, exact match")
	queryCmd.Flags().StringVar(&queryIndicator, "indicator", "", "indicator alias or name fragment")
	queryCmd.Flags().StringVar(&queryCity, "city", "", "district name; replaces --state")
	placeCmd.Flags().StringVar(&placeCategory, "category", "", "restrict to one category")

	for _, c := range []*cobra.Command{queryCmd, placeCmd, aliasesCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print the HTTP API response body instead of a table")
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	st, err := buildStack(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	category := args[0]
	filters := chiTransport.CategoryFilters(chiTransport.QueryCategoryParams{
		State:     optional(queryState),
		Year:      optional(queryYear),
		Indicator: optional(queryIndicator),
		City:      optional(queryCity),
	})

	env, err := st.indicators.QueryIndicators(cmd.Context(), category, filters)
	if err != nil {
		return fmt.Errorf("query %s: %w", category, err)
	}

	resp := chiTransport.NewCategoryResponse(env)
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	return writeCategory(cmd.OutOrStdout(), resp)
}

func runPlace(cmd *cobra.Command, args []string) error {
	st, err := buildStack(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	env, err := st.indicators.QueryIndicatorsForGeography(cmd.Context(), domind.FromSlug(args[0]), placeCategory)
	if err != nil {
		return fmt.Errorf("query %s: %w", args[0], err)
	}

	resp := chiTransport.NewStateResponse(env)
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	return writeState(cmd.OutOrStdout(), resp)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
