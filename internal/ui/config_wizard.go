package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"starforge/pkg/models"
)

// ConfigWizard provides an interactive configuration setup
type ConfigWizard struct {
	currentStep int
	totalSteps  int
}

// NewConfigWizard creates a new configuration wizard
func NewConfigWizard() *ConfigWizard {
	return &ConfigWizard{
		currentStep: 1,
		totalSteps:  4,
	}
}

// Run executes the configuration wizard
func (w *ConfigWizard) Run() (*models.Config, error) {
	ShowHeader("Starforge - Configuration Setup")

	config := &models.Config{Layers: models.DefaultLayers()}

	if err := w.configureWarehouseStep(config); err != nil {
		if err == terminal.InterruptErr {
			return nil, fmt.Errorf("configuration cancelled")
		}
		return nil, err
	}

	if err := w.configureLayersStep(config); err != nil {
		if err == terminal.InterruptErr {
			return nil, fmt.Errorf("configuration cancelled")
		}
		return nil, err
	}

	if err := w.configurePipelineStep(config); err != nil {
		if err == terminal.InterruptErr {
			return nil, fmt.Errorf("configuration cancelled")
		}
		return nil, err
	}

	if err := w.reviewConfiguration(config); err != nil {
		return nil, err
	}

	return config, nil
}

func (w *ConfigWizard) configureWarehouseStep(config *models.Config) error {
	w.showProgress("Warehouse Connection")

	questions := []*survey.Question{
		{
			Name: "account",
			Prompt: &survey.Input{
				Message: "Snowflake Account:",
				Help:    "Your Snowflake account identifier (e.g., xy12345.us-east-1)",
			},
			Validate: survey.Required,
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username:",
				Help:    "Your Snowflake username",
			},
			Validate: survey.Required,
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Password:",
				Help:    "Your Snowflake password (stored in the system keyring)",
			},
			Validate: survey.Required,
		},
		{
			Name: "database",
			Prompt: &survey.Input{
				Message: "Database:",
				Default: "DWH",
				Help:    "Database holding the raw, conformed and mart schemas",
			},
			Validate: survey.Required,
		},
		{
			Name: "warehouse",
			Prompt: &survey.Input{
				Message: "Warehouse:",
				Default: "COMPUTE_WH",
				Help:    "Warehouse to use for pipeline queries",
			},
			Validate: survey.Required,
		},
		{
			Name: "role",
			Prompt: &survey.Input{
				Message: "Role:",
				Default: "SYSADMIN",
				Help:    "Role to use for pipeline runs",
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Account   string
		Username  string
		Password  string
		Database  string
		Warehouse string
		Role      string
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	config.Snowflake = models.Snowflake{
		Account:   answers.Account,
		Username:  answers.Username,
		Password:  answers.Password,
		Database:  answers.Database,
		Warehouse: answers.Warehouse,
		Role:      answers.Role,
	}

	w.currentStep++
	return nil
}

func (w *ConfigWizard) configureLayersStep(config *models.Config) error {
	w.showProgress("Layer Schemas")

	questions := []*survey.Question{
		{
			Name: "raw",
			Prompt: &survey.Input{
				Message: "Raw Schema:",
				Default: config.Layers.Raw,
				Help:    "Schema holding the bulk-loaded CRM and ERP extracts",
			},
			Validate: survey.Required,
		},
		{
			Name: "conformed",
			Prompt: &survey.Input{
				Message: "Conformed Schema:",
				Default: config.Layers.Conformed,
				Help:    "Schema receiving the cleansed and standardized tables",
			},
			Validate: survey.Required,
		},
		{
			Name: "mart",
			Prompt: &survey.Input{
				Message: "Mart Schema:",
				Default: config.Layers.Mart,
				Help:    "Schema receiving the dimensional model",
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Raw       string
		Conformed string
		Mart      string
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	config.Layers = models.Layers{
		Raw:       answers.Raw,
		Conformed: answers.Conformed,
		Mart:      answers.Mart,
	}

	w.currentStep++
	return nil
}

func (w *ConfigWizard) configurePipelineStep(config *models.Config) error {
	w.showProgress("Pipeline Settings")

	questions := []*survey.Question{
		{
			Name: "parallel",
			Prompt: &survey.Confirm{
				Message: "Conform entities in parallel?",
				Default: true,
				Help:    "Run the independent conformance stages concurrently",
			},
		},
		{
			Name: "batchSize",
			Prompt: &survey.Input{
				Message: "Insert Batch Size:",
				Default: "500",
				Help:    "Rows per insert statement during warehouse loads",
			},
			Validate: func(val interface{}) error {
				s, _ := val.(string)
				n, err := strconv.Atoi(s)
				if err != nil || n <= 0 {
					return fmt.Errorf("batch size must be a positive integer")
				}
				return nil
			},
		},
		{
			Name: "validation",
			Prompt: &survey.Confirm{
				Message: "Run integrity checks after each run?",
				Default: true,
				Help:    "Validate key uniqueness, connectivity and row parity",
			},
		},
	}

	answers := struct {
		Parallel   bool
		BatchSize  string
		Validation bool
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	batchSize, _ := strconv.Atoi(answers.BatchSize)
	config.Pipeline = models.Pipeline{
		Parallel:  answers.Parallel,
		BatchSize: batchSize,
	}
	config.Validation = models.Validation{
		Enabled:    answers.Validation,
		SampleKeys: 5,
	}

	w.currentStep++
	return nil
}

func (w *ConfigWizard) reviewConfiguration(config *models.Config) error {
	w.showProgress("Review Configuration")

	fmt.Println("\n" + ColorInfo("Configuration Summary:"))
	fmt.Println(strings.Repeat("-", 50))

	fmt.Println(ColorBold("\nSnowflake Settings:"))
	fmt.Printf("  Account:   %s\n", config.Snowflake.Account)
	fmt.Printf("  Username:  %s\n", config.Snowflake.Username)
	fmt.Printf("  Database:  %s\n", config.Snowflake.Database)
	fmt.Printf("  Warehouse: %s\n", config.Snowflake.Warehouse)
	fmt.Printf("  Role:      %s\n", config.Snowflake.Role)

	fmt.Println(ColorBold("\nLayer Schemas:"))
	fmt.Printf("  Raw:       %s\n", config.Layers.Raw)
	fmt.Printf("  Conformed: %s\n", config.Layers.Conformed)
	fmt.Printf("  Mart:      %s\n", config.Layers.Mart)

	fmt.Println(strings.Repeat("-", 50))

	confirm := false
	prompt := &survey.Confirm{
		Message: "Save this configuration?",
		Default: true,
	}

	if err := survey.AskOne(prompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("configuration cancelled")
	}

	return nil
}

func (w *ConfigWizard) showProgress(step string) {
	fmt.Printf("\n%s [Step %d/%d] %s\n\n",
		ColorProgress("►"),
		w.currentStep,
		w.totalSteps,
		ColorBold(step),
	)
}
