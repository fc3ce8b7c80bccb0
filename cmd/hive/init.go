package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hivetools/hive/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a hive configuration file",
		Long: `Generate a documented hive configuration file with sensible defaults.

By default, creates hive.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard that also
tunes detector thresholds and the parse guard per strictness level.

Examples:
  # Create hive.yaml in current directory
  hive init

  # Custom output path
  hive init --config custom.yaml

  # Overwrite existing file
  hive init --force

  # Generate smaller config with essential options only
  hive init --minimal

  # Interactive setup wizard
  hive init --interactive
  hive init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "hive.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	opts := config.TemplateOptions{
		Project:    config.ProjectTypeGeneric,
		Strictness: config.StrictnessStandard,
	}

	if interactive {
		wizardOpts, wizardPath, err := runSetupWizard(configPath)
		if err != nil {
			return err
		}
		opts = wizardOpts
		configPath = wizardPath
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	if dir := filepath.Dir(configPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content := config.GetFullConfigTemplate(opts)
	if minimal {
		content = config.GetMinimalConfigTemplate()
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'hive score .' to score your project.")

	return nil
}

// wizardChoice is one selectable entry in the setup wizard
type wizardChoice struct {
	Label       string
	Description string
	Value       string
}

var wizardTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
	Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
	Selected: "\U00002705 {{ .Label | green }}",
}

func wizardSelect(label string, choices []wizardChoice) (string, error) {
	prompt := promptui.Select{
		Label:     label,
		Items:     choices,
		Templates: wizardTemplates,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return choices[idx].Value, nil
}

// runSetupWizard walks through project type, strictness, and output
// format, then asks for the config destination.
func runSetupWizard(defaultConfigPath string) (config.TemplateOptions, string, error) {
	var opts config.TemplateOptions

	fmt.Println()
	fmt.Println("hive Configuration Setup")
	fmt.Println("========================")
	fmt.Println()

	project, err := wizardSelect("What type of project is this?", []wizardChoice{
		{"Generic JavaScript/TypeScript", "Default include/exclude patterns", string(config.ProjectTypeGeneric)},
		{"React/Next.js", "Skips .next and coverage output", string(config.ProjectTypeReact)},
		{"Vue/Nuxt", "Includes .vue files, skips .nuxt", string(config.ProjectTypeVue)},
		{"Node.js Backend", "Includes .mjs/.cjs, skips test dirs", string(config.ProjectTypeNodeBackend)},
	})
	if err != nil {
		return opts, "", err
	}
	opts.Project = config.ProjectType(project)

	fmt.Println()

	strictness, err := wizardSelect("How strict should scoring be?", []wizardChoice{
		{"Standard (recommended)", "50-statement functions, depth 4, 30s parse timeout", string(config.StrictnessStandard)},
		{"Relaxed", "Looser thresholds, patient parse guard", string(config.StrictnessRelaxed)},
		{"Strict", "CI-grade thresholds, breaker trips after 3 failures", string(config.StrictnessStrict)},
	})
	if err != nil {
		return opts, "", err
	}
	opts.Strictness = config.Strictness(strictness)

	fmt.Println()

	format, err := wizardSelect("Default report format?", []wizardChoice{
		{"Text", "Human-readable report with insights", "text"},
		{"JSON", "Machine-readable, for tooling", "json"},
		{"YAML", "Machine-readable, diff-friendly", "yaml"},
		{"CSV", "One row per file, for spreadsheets", "csv"},
	})
	if err != nil {
		return opts, "", err
	}
	opts.Format = format

	fmt.Println()

	pathPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := pathPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return opts, outputPath, nil
}
