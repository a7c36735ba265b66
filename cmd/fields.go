package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/profile"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Describe the profile fields and their allowed values",
	Example: `  gradepath fields
  gradepath fields --format json
  gradepath fields --example > student.json`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		example, _ := cmd.Flags().GetBool("example")
		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()

		if example {
			return writeJSON(out, profile.Example().Input())
		}
		switch format {
		case "json":
			return writeJSON(out, profile.Fields())
		case "text":
			printFieldGuide(out)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
	},
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printFieldGuide(w io.Writer) {
	byGroup := map[string][]profile.Field{}
	for _, f := range profile.Fields() {
		byGroup[f.Group] = append(byGroup[f.Group], f)
	}
	for i, g := range profile.Groups() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, g)
		fmt.Fprintln(w, strings.Repeat("─", len(g)))
		for _, f := range byGroup[g] {
			fmt.Fprintf(w, "%-12s %s: %s\n", f.Column, f.Label, f.Guide)
		}
	}
}

func init() {
	fieldsCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	fieldsCmd.Flags().Bool("example", false, "Print the example profile as JSON")
}
