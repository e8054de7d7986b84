package cli

import (
	"fmt"

	"resumelens/internal/ai"

	"github.com/spf13/cobra"
)

var (
	// Version information - can be set during build with ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCheckModel bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information for resumelens, optionally checking AI model availability",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("resumelens version %s\n", Version)
		fmt.Printf("Git commit: %s\n", GitCommit)
		fmt.Printf("Build date: %s\n", BuildDate)

		if versionCheckModel {
			printModelInfo(cmd)
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheckModel, "check-model", false,
		"Check availability of the configured AI model")
}

func printModelInfo(cmd *cobra.Command) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	analyzeCfg := cfg.GetAnalyzeConfig()
	provider, err := ai.NewGeminiProvider(&analyzeCfg, "analyze", nil, logger)
	if err != nil {
		fmt.Printf("AI model:   %s (not reachable: %v)\n", analyzeCfg.Model, err)
		return
	}

	info := provider.GetModelInfo(cmd.Context())
	if !info.Available {
		fmt.Printf("AI model:   %s (unavailable: %s)\n", info.Name, info.Error)
		return
	}
	fmt.Printf("AI model:   %s", info.Name)
	if info.DisplayName != "" {
		fmt.Printf(" (%s)", info.DisplayName)
	}
	if info.Version != "" {
		fmt.Printf(" v%s", info.Version)
	}
	fmt.Println(" - available")
}
