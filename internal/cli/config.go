package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/compintel/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the configuration after file, environment and flag overrides. --init writes defaults to the config path.",
		Run:   runConfig,
	}

	cmd.Flags().Bool("init", false, "Write a default config file if none exists")

	RootCmd.AddCommand(cmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	initFile, _ := cmd.Flags().GetBool("init")

	if initFile {
		exists, err := config.Exists(configPath)
		if err != nil {
			exitErr("init config", err)
		}
		if exists {
			exitErr("init config", fmt.Errorf("%s already exists", configPath))
		}
		if err := config.Save(config.DefaultConfig(), configPath); err != nil {
			exitErr("init config", err)
		}
		fmt.Printf(`{"ok":true,"path":%q}`+"\n", configPath)
		return
	}

	shown := *cfg
	if shown.API.APIKey != "" {
		shown.API.APIKey = "********"
	}
	b, err := yaml.Marshal(&shown)
	if err != nil {
		exitErr("marshal config", err)
	}
	os.Stdout.Write(b)
}
