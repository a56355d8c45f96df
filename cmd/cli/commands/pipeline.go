package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/core/services"
)

const (
	flagTable     = "table"
	flagMaxModels = "max-models"
	flagLimit     = "limit"
	flagOffset    = "offset"
)

// pipelineOutput is the filtered view printed for a project.
type pipelineOutput struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	State          string `json:"state,omitempty"`
	DataTableURI   string `json:"data_table_uri,omitempty"`
	TargetVariable string `json:"target_variable,omitempty"`
}

func toPipelineOutput(p *domain.PipelineProject) pipelineOutput {
	return pipelineOutput{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		State:          p.State,
		DataTableURI:   p.DataTableURI,
		TargetVariable: p.AnalyticsProjectAttributes.TargetVariable,
	}
}

func newPipelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage ML Pipeline Automation projects",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a pipeline automation project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := services.CreatePipelineInput{}
			in.Name, _ = cmd.Flags().GetString(flagName)
			in.Description, _ = cmd.Flags().GetString(flagDescription)
			in.DataTableURI, _ = cmd.Flags().GetString(flagTable)
			in.TargetVariable, _ = cmd.Flags().GetString(flagTargetVariable)
			if cmd.Flags().Changed(flagMaxModels) {
				n, _ := cmd.Flags().GetInt(flagMaxModels)
				in.MaxModels = &n
			}

			svc, err := a.pipelineService(cmd.Context())
			if err != nil {
				return err
			}
			project, err := svc.Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("error creating pipeline project: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), toPipelineOutput(project))
		},
	}
	create.Flags().StringP(flagName, "n", "", "Project name")
	create.Flags().StringP(flagDescription, "d", "", "Project description")
	create.Flags().String(flagTable, "", "Data table URI, e.g. /dataTables/dataSources/cas~fs~cas-shared-default~fs~Public/tables/HMEQ")
	create.Flags().String(flagTargetVariable, "", "Target variable")
	create.Flags().Int(flagMaxModels, 0, "Number of models to train")
	for _, f := range []string{flagName, flagTable, flagTargetVariable} {
		if err := create.MarkFlagRequired(f); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for pipeline create command: %w", f, err))
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pipeline automation projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := ports.PipelineListFilter{}
			filter.Name, _ = cmd.Flags().GetString(flagName)
			filter.Limit, _ = cmd.Flags().GetInt(flagLimit)
			filter.Offset, _ = cmd.Flags().GetInt(flagOffset)

			svc, err := a.pipelineService(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := svc.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("error listing pipeline projects: %w", err)
			}
			out := make([]pipelineOutput, 0, len(projects))
			for i := range projects {
				out = append(out, toPipelineOutput(&projects[i]))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	list.Flags().StringP(flagName, "n", "", "Only projects with this name")
	list.Flags().Int(flagLimit, 20, "Page size")
	list.Flags().Int(flagOffset, 0, "Page offset")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a pipeline automation project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pipelineService(cmd.Context())
			if err != nil {
				return err
			}
			project, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error getting pipeline project: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), toPipelineOutput(project))
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a pipeline automation project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pipelineService(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("error deleting pipeline project: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted pipeline project %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, list, get, del)
	return cmd
}
