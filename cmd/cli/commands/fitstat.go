package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"viya-model-manager/internal/fitstat"
)

const (
	flagTarget      = "target"
	flagThreshold   = "threshold"
	flagValidate    = "validate"
	flagTrain       = "train"
	flagTest        = "test"
	flagCSV         = "csv"
	flagEntry       = "entry"
	flagInteractive = "interactive"
)

func newFitStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fitstat",
		Short: "Build dmcas_fitstat, dmcas_roc and dmcas_lift files",
	}
	cmd.AddCommand(newFitStatCalculateCmd(), newFitStatInputCmd())
	return cmd
}

func newFitStatCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute fit statistics, ROC and Lift from scored data",
		Long: `Compute fit statistics, ROC and Lift from scored CSV files, one per partition.

Each CSV holds actual,predicted[,probability] columns; a header row is optional.
At least one of --validate, --train and --test is required.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, _ := cmd.Flags().GetString(flagTarget)
			out, _ := cmd.Flags().GetString(flagOut)

			opts := fitstat.CalculateOptions{TargetValue: target}
			if cmd.Flags().Changed(flagThreshold) {
				th, _ := cmd.Flags().GetFloat64(flagThreshold)
				opts.Threshold = &th
			}

			var parts fitstat.Partitions
			for flag, dst := range map[string]**fitstat.Dataset{
				flagValidate: &parts.Validate,
				flagTrain:    &parts.Train,
				flagTest:     &parts.Test,
			} {
				path, _ := cmd.Flags().GetString(flag)
				if path == "" {
					continue
				}
				ds, err := loadDataset(path)
				if err != nil {
					return err
				}
				*dst = ds
			}

			res, err := fitstat.CalculateModelStatistics(cmd.Context(), opts, parts)
			if err != nil {
				return err
			}
			files, err := res.Write(out)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().String(flagTarget, "", "Target event value")
	cmd.Flags().Float64(flagThreshold, fitstat.DefaultThreshold, "Event probability cutoff")
	cmd.Flags().String(flagValidate, "", "Scored CSV for the VALIDATE partition")
	cmd.Flags().String(flagTrain, "", "Scored CSV for the TRAIN partition")
	cmd.Flags().String(flagTest, "", "Scored CSV for the TEST partition")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the files to; prints them when empty")
	if err := cmd.MarkFlagRequired(flagTarget); err != nil {
		panic(fmt.Errorf("failed to mark target flag as required for fitstat calculate command: %w", err))
	}
	return cmd
}

func loadDataset(path string) (*fitstat.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	ds, err := fitstat.LoadDatasetCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func newFitStatInputCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "input",
		Short: "Fill dmcas_fitstat.json from user supplied statistics",
		Long: `Fill dmcas_fitstat.json from statistics given as --entry NAME,VALUE,ROLE flags,
a CSV file of the same columns, or interactively. ROLE is 1, 2 or 3 or TRAIN,
TEST or VALIDATE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, _ := cmd.Flags().GetStringArray(flagEntry)
			csvPath, _ := cmd.Flags().GetString(flagCSV)
			interactive, _ := cmd.Flags().GetBool(flagInteractive)
			out, _ := cmd.Flags().GetString(flagOut)

			var opts fitstat.InputOptions
			if len(entries) > 0 {
				parsed, err := fitstat.EntriesFromCSV(strings.NewReader(strings.Join(entries, "\n")))
				if err != nil {
					return err
				}
				opts.Entries = parsed
			}
			if interactive {
				opts.Prompter = fitstat.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if csvPath != "" {
				f, err := os.Open(csvPath)
				if err != nil {
					return fmt.Errorf("open csv: %w", err)
				}
				defer f.Close()
				opts.CSV = f
			}

			_, files, err := fitstat.InputFitStatistics(opts, out)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().StringArray(flagEntry, nil, "Statistic as NAME,VALUE,ROLE (repeatable)")
	cmd.Flags().String(flagCSV, "", "CSV file of name,value,role rows")
	cmd.Flags().BoolP(flagInteractive, "i", false, "Prompt for statistics")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the file to; prints it when empty")
	return cmd
}
