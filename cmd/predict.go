package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/report"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the final grade for a profile file and print the report",
	Example: `  gradepath fields --example > student.json
  gradepath predict --profile student.json
  gradepath predict --profile student.json --grade 11.5 --format json
  gradepath predict --profile - --out reports/ < student.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		profilePath, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		emailTo, _ := cmd.Flags().GetString("email")
		share, _ := cmd.Flags().GetBool("share")

		if format != "text" && format != "json" {
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}

		p, err := readProfile(cmd.InOrStdin(), profilePath)
		if err != nil {
			return err
		}

		var g float64
		if cmd.Flags().Changed("grade") {
			g, _ = cmd.Flags().GetFloat64("grade")
			if math.IsNaN(g) || math.IsInf(g, 0) {
				return fmt.Errorf("invalid grade %v: must be a finite number", g)
			}
		} else {
			predictor, cleanup, err := buildPredictor(ctx)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}
			defer cleanup()
			g, err = predictor.Predict(ctx, p)
			if err != nil {
				return fmt.Errorf("prediction failed: %w", err)
			}
		}

		rep := report.New(p, advisor.Assess(p, g), time.Now())

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			data, err := rep.JSON()
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			fmt.Fprintln(out, string(data))
		default:
			fmt.Fprintln(out, rep.Text())
		}

		if share {
			fmt.Fprintln(cmd.ErrOrStderr(), rep.MailtoLink())
		}

		if outDir != "" {
			path, err := rep.Save(outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Report saved to", path)
		}

		if emailTo != "" {
			m := buildMailer(ctx)
			if m == nil || !m.Enabled() {
				return errors.New("email is not configured: set mail.from (GRADEPATH_MAIL_FROM)")
			}
			err := m.Send(ctx, mailer.Message{To: emailTo, Subject: report.Title, Body: rep.Text()})
			if err != nil {
				return fmt.Errorf("send report: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Report emailed to", emailTo)
		}
		return nil
	},
}

// readProfile loads a JSON profile from path, or from r when path is "-".
func readProfile(r io.Reader, path string) (profile.Profile, error) {
	if path != "-" {
		return profile.Load(path)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return profile.Parse(data)
}

func init() {
	predictCmd.Flags().StringP("profile", "p", "", "Profile JSON file, or - for stdin")
	predictCmd.Flags().Float64P("grade", "g", 0, "Use this grade instead of running the predictor")
	predictCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	predictCmd.Flags().StringP("out", "o", "", "Also save the text report into this directory")
	predictCmd.Flags().String("email", "", "Email the text report to this address")
	predictCmd.Flags().Bool("share", false, "Print a mailto share link to stderr")
	_ = predictCmd.MarkFlagRequired("profile")
}
