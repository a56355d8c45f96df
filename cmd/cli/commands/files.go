package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"viya-model-manager/internal/artifacts"
)

const (
	flagName           = "name"
	flagTargetVariable = "target-variable"
	flagTargetValues   = "target-values"
	flagDescription    = "description"
	flagAlgorithm      = "algorithm"
	flagFunction       = "function"
	flagModeler        = "modeler"
	flagTrainTable     = "train-table"
	flagProperty       = "property"
	flagH2O            = "h2o"
	flagOutput         = "output"
	flagModelDir       = "model-dir"
	flagFreeze         = "freeze"
)

func newFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Write the JSON files SAS Model Manager reads from a model zip",
	}
	cmd.AddCommand(newPropertiesCmd(), newMetadataCmd(), newVarsCmd(), newRequirementsCmd())
	return cmd
}

func newPropertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "Write ModelProperties.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			in := artifacts.ModelPropertiesInput{}
			in.Name, _ = f.GetString(flagName)
			in.TargetVariable, _ = f.GetString(flagTargetVariable)
			in.TargetValues, _ = f.GetStringSlice(flagTargetValues)
			in.Description, _ = f.GetString(flagDescription)
			in.Algorithm, _ = f.GetString(flagAlgorithm)
			in.Function, _ = f.GetString(flagFunction)
			in.Modeler, _ = f.GetString(flagModeler)
			in.TrainTable, _ = f.GetString(flagTrainTable)
			props, _ := f.GetStringToString(flagProperty)
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				in.Properties = append(in.Properties, artifacts.Property{Name: name, Value: props[name], Type: "string"})
			}
			out, _ := f.GetString(flagOut)

			files, err := artifacts.WriteModelPropertiesJSON(in, out)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().StringP(flagName, "n", "", "Model name")
	cmd.Flags().String(flagTargetVariable, "", "Target variable")
	cmd.Flags().StringSlice(flagTargetValues, nil, "Target values, event first; none for a regression model")
	cmd.Flags().String(flagDescription, "", "Model description")
	cmd.Flags().String(flagAlgorithm, "", "Algorithm")
	cmd.Flags().String(flagFunction, "", "Model function; derived from the target values when empty")
	cmd.Flags().String(flagModeler, "", "Modeler")
	cmd.Flags().String(flagTrainTable, "", "Training table")
	cmd.Flags().StringToString(flagProperty, nil, "Custom property as NAME=VALUE (repeatable)")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the file to; prints it when empty")
	if err := cmd.MarkFlagRequired(flagName); err != nil {
		panic(fmt.Errorf("failed to mark name flag as required for properties command: %w", err))
	}
	return cmd
}

func newMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Write fileMetadata.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefix, _ := cmd.Flags().GetString(flagPrefix)
			h2o, _ := cmd.Flags().GetBool(flagH2O)
			out, _ := cmd.Flags().GetString(flagOut)

			files, err := artifacts.WriteFileMetadataJSON(prefix, out, h2o)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().String(flagPrefix, "", "Model prefix used in file names")
	cmd.Flags().Bool(flagH2O, false, "The score resource is an H2O MOJO")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the file to; prints it when empty")
	if err := cmd.MarkFlagRequired(flagPrefix); err != nil {
		panic(fmt.Errorf("failed to mark prefix flag as required for metadata command: %w", err))
	}
	return cmd
}

func newVarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Write inputVar.json or outputVar.json from a CSV sample",
		RunE: func(cmd *cobra.Command, _ []string) error {
			csvPath, _ := cmd.Flags().GetString(flagCSV)
			output, _ := cmd.Flags().GetBool(flagOutput)
			out, _ := cmd.Flags().GetString(flagOut)

			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()
			cols, err := artifacts.ColumnsFromCSV(f)
			if err != nil {
				return err
			}

			files, err := artifacts.WriteVarJSON(artifacts.GenerateVariableProperties(cols), !output, out)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().String(flagCSV, "", "CSV sample with a header row")
	cmd.Flags().Bool(flagOutput, false, "Write outputVar.json instead of inputVar.json")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the file to; prints it when empty")
	if err := cmd.MarkFlagRequired(flagCSV); err != nil {
		panic(fmt.Errorf("failed to mark csv flag as required for vars command: %w", err))
	}
	return cmd
}

func newRequirementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Write requirements.json from the imports of the Python files in a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelDir, _ := cmd.Flags().GetString(flagModelDir)
			freeze, _ := cmd.Flags().GetString(flagFreeze)
			out, _ := cmd.Flags().GetString(flagOut)

			versions := map[string]string{}
			if freeze != "" {
				f, err := os.Open(freeze)
				if err != nil {
					return fmt.Errorf("open freeze file: %w", err)
				}
				defer f.Close()
				if versions, err = artifacts.ParsePipFreeze(f); err != nil {
					return err
				}
			}

			files, err := artifacts.CreateRequirementsJSON(modelDir, versions, out)
			if err != nil {
				return err
			}
			return printFiles(cmd.OutOrStdout(), files, out)
		},
	}

	cmd.Flags().String(flagModelDir, "", "Directory with the model's Python files")
	cmd.Flags().String(flagFreeze, "", "Output of pip freeze used to pin versions")
	cmd.Flags().StringP(flagOut, "o", "", "Directory to write the file to; prints it when empty")
	if err := cmd.MarkFlagRequired(flagModelDir); err != nil {
		panic(fmt.Errorf("failed to mark model-dir flag as required for requirements command: %w", err))
	}
	return cmd
}
