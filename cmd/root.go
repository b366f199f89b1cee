package cmd

import (
	"github.com/Sena-ops/a11yguard/internal/config"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var debugMode bool
var configPath string

// cfg é carregada no PersistentPreRunE, antes de qualquer subcomando.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "a11yguard",
	Short:   "a11yguard - Agregador de scanners de acessibilidade",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.InitLogger(debugMode)
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		logging.Logger.Debugw("configuração carregada", "engines", cfg.Engines, "viewport", cfg.Viewport)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Habilita logs em nível debug")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Arquivo de configuração (padrão: "+config.DefaultFile+")")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
