package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/spf13/cobra"
)

var (
	scoreRequired string
	scoreJSON     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [skill...]",
	Short: "Score candidate skills against a comma-separated requirement list",
	Example: `  hrportal score --required "Go, SQL, Docker" go docker react
  hrportal score --required "Go, SQL" "Go, Postgres" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var skills []string
		for _, arg := range args {
			skills = append(skills, strings.Split(arg, ",")...)
		}
		result := matching.ComputeMatch(scoreRequired, matching.NormalizeSkills(skills))

		out := cmd.OutOrStdout()
		if scoreJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if !result.HasRequirements {
			fmt.Fprintln(out, "Match: n/a (no required skills)")
		} else {
			fmt.Fprintf(out, "Match: %.2f%% (%d/%d required skills)\n",
				result.MatchPercentage, result.MatchedCount, result.RequiredCount)
		}
		fmt.Fprintf(out, "Matched:    %s\n", joinOrDash(result.Matched))
		fmt.Fprintf(out, "Missing:    %s\n", joinOrDash(result.Missing))
		preview, more := result.AdditionalPreview(5)
		additional := joinOrDash(preview)
		if more > 0 {
			additional += fmt.Sprintf(" (+%d more)", more)
		}
		fmt.Fprintf(out, "Additional: %s\n", additional)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreRequired, "required", "", "required skills, comma separated")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
