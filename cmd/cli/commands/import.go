package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/services"
)

const (
	flagDir            = "dir"
	flagPrefix         = "prefix"
	flagProject        = "project"
	flagProjectVersion = "project-version"
	flagOverwrite      = "overwrite"
	flagScoreCode      = "score-code"
	flagMLflow         = "mlflow"
)

type importOutput struct {
	ModelID         string   `json:"model_id"`
	ModelName       string   `json:"model_name"`
	ProjectID       string   `json:"project_id"`
	ProjectName     string   `json:"project_name,omitempty"`
	PlatformVersion string   `json:"platform_version,omitempty"`
	ScoreCode       bool     `json:"score_code"`
	Files           []string `json:"files"`
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Zip a model directory and register it in SAS Model Manager",
		Long: `Zip the files in --dir and import them as a model named --prefix.

When --score-code names a JSON file with input_variables, predict_method and
score_metrics, Python score code is generated as well. With --mlflow the MLmodel
file in --dir supplies the serialization format and model file name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString(flagDir)
			prefix, _ := cmd.Flags().GetString(flagPrefix)
			project, _ := cmd.Flags().GetString(flagProject)
			version, _ := cmd.Flags().GetString(flagProjectVersion)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			scoreCodePath, _ := cmd.Flags().GetString(flagScoreCode)
			mlflow, _ := cmd.Flags().GetBool(flagMLflow)

			req := services.ImportRequest{
				Files:          domain.FilesFromDir(dir),
				Prefix:         prefix,
				Project:        project,
				ProjectVersion: version,
				Overwrite:      overwrite,
			}
			if scoreCodePath != "" {
				data, err := os.ReadFile(scoreCodePath)
				if err != nil {
					return fmt.Errorf("read score code options: %w", err)
				}
				var opts domain.ScoreCodeOptions
				if err := json.Unmarshal(data, &opts); err != nil {
					return fmt.Errorf("parse score code options: %w", err)
				}
				req.ScoreCode = &opts
			}
			if mlflow {
				details, err := artifacts.ReadMLflowModel(dir)
				if err != nil {
					return err
				}
				req.MLflow = details
			}

			svc, err := a.importService(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.ImportModel(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("error importing model: %w", err)
			}

			out := importOutput{
				ModelID:     res.Model.ID,
				ModelName:   res.Model.Name,
				ProjectID:   res.Model.ProjectID,
				ProjectName: res.Model.ProjectName,
				ScoreCode:   res.ScoreCode,
			}
			if res.PlatformVersion != domain.PlatformUnknown {
				out.PlatformVersion = res.PlatformVersion.String()
			}
			if names, err := res.Files.Names(); err == nil {
				out.Files = names
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringP(flagDir, "d", "", "Directory holding the model files")
	cmd.Flags().String(flagPrefix, "", "Model name, also used to name the zip and score code")
	cmd.Flags().String(flagProject, "", "Project name or UUID; a missing project name is created")
	cmd.Flags().String(flagProjectVersion, domain.LatestVersion, "Project version name, \"latest\" or \"new\"")
	cmd.Flags().Bool(flagOverwrite, false, "Replace a model with the same name in the project version")
	cmd.Flags().String(flagScoreCode, "", "JSON file with score code options")
	cmd.Flags().Bool(flagMLflow, false, "Read MLflow details from the MLmodel file in --dir")
	for _, f := range []string{flagDir, flagPrefix, flagProject} {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for import command: %w", f, err))
		}
	}
	if err := cmd.MarkFlagDirname(flagDir); err != nil {
		panic(err)
	}
	return cmd
}
