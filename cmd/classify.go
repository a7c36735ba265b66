package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/grade"
)

// tierView is the classify output.
type tierView struct {
	Grade    float64        `json:"grade"`
	Tier     grade.Tier     `json:"tier"`
	Label    string         `json:"label"`
	Emphasis grade.Emphasis `json:"emphasis"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <grade>",
	Short: "Print the performance tier for a final grade",
	Example: `  gradepath classify 13.9
  gradepath classify 16 --format json`,
	Args: cobra.ExactArgs(1),
	// Classification needs no config, LLM or database.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		g, err := strconv.ParseFloat(args[0], 64)
		if err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("invalid grade %q: must be a finite number", args[0])
		}
		t := grade.Classify(g)
		v := tierView{Grade: g, Tier: t, Label: t.Label(), Emphasis: t.Emphasis()}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		case "text":
			fmt.Fprintf(out, "%.1f/20  %s (%s)\n", v.Grade, v.Label, v.Emphasis)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}
