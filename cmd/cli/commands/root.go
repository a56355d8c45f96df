package commands

import (
	"context"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"viya-model-manager/internal/adapters/secondary/tokenstore"
	"viya-model-manager/internal/adapters/secondary/viya"
	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/config"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/core/services"
)

// flag names
const (
	flagURL          = "url"
	flagUsername     = "username"
	flagPassword     = "password"
	flagClientID     = "client-id"
	flagClientSecret = "client-secret"
	flagInsecure     = "insecure"
	flagOut          = "out"
)

// app carries the resolved configuration and the factories commands use to
// reach SAS Viya. Tests replace the factories.
type app struct {
	cfg    *config.Config
	tokens ports.TokenStore

	importService   func(ctx context.Context) (*services.ModelImportService, error)
	pipelineService func(ctx context.Context) (*services.PipelineService, error)
}

func newApp() *app {
	a := &app{}
	a.importService = func(ctx context.Context) (*services.ModelImportService, error) {
		client, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		platform, err := viya.NewPlatform(client, a.cfg.Viya.Version)
		if err != nil {
			return nil, err
		}
		return services.NewModelImportService(viya.NewModelRepository(client), platform, artifacts.NewTemplateScoreCodeWriter(), nil), nil
	}
	a.pipelineService = func(ctx context.Context) (*services.PipelineService, error) {
		client, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		return services.NewPipelineService(viya.NewPipelineAutomation(client)), nil
	}
	return a
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "viya-mm",
		Short:        "Register models and build SAS Model Manager artifacts",
		Long:         "viya-mm imports models into SAS Model Manager and writes the JSON files it expects:\nvariables, model properties, file metadata, requirements, fit statistics, ROC and Lift.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	// Flags override VIYA_* environment variables and .env entries.
	cmd.PersistentFlags().String(flagURL, "", "SAS Viya base URL (env: VIYA_URL)")
	cmd.PersistentFlags().StringP(flagUsername, "u", "", "SAS Logon user (env: VIYA_USERNAME)")
	cmd.PersistentFlags().StringP(flagPassword, "p", "", "SAS Logon password (env: VIYA_PASSWORD)")
	cmd.PersistentFlags().String(flagClientID, "", "OAuth client id (env: VIYA_CLIENT_ID)")
	cmd.PersistentFlags().String(flagClientSecret, "", "OAuth client secret (env: VIYA_CLIENT_SECRET)")
	cmd.PersistentFlags().Bool(flagInsecure, false, "Skip TLS certificate verification (env: VIYA_VERIFY_TLS=false)")

	cmd.AddCommand(newAuthCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newFitStatCmd())
	cmd.AddCommand(newFilesCmd())
	cmd.AddCommand(newPipelineCmd(a))
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if os.Getenv("LOGGER_FORMAT") == "" {
			cfg.Logger.Format = "text"
		}
		a.cfg = cfg
	}
	config.InitLogger(a.cfg.Logger)

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		flagURL:          &a.cfg.Viya.URL,
		flagUsername:     &a.cfg.Viya.Username,
		flagPassword:     &a.cfg.Viya.Password,
		flagClientID:     &a.cfg.Viya.ClientID,
		flagClientSecret: &a.cfg.Viya.ClientSecret,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if insecure, _ := flags.GetBool(flagInsecure); insecure {
		a.cfg.Viya.VerifyTLS = false
	}

	if a.tokens == nil {
		a.tokens = tokenstore.NewTokenStore(tokenstore.DefaultService, tokenDir())
	}
	return nil
}

func tokenDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.WithError(err).Debug("no user config dir, token file fallback disabled")
		return ""
	}
	return filepath.Join(dir, "viya-model-manager")
}
