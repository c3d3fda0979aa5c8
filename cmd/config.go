package cmd

import (
	"fmt"

	"github.com/tejocr/tejocr/pkg/config"
	"github.com/tejocr/tejocr/pkg/constants"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persistent OCR settings",
	Long: `Manage persistent OCR settings.

Settings are stored in a JSON file in your user configuration directory
(~/.tejocr/config.json). You can list all settings, get specific values,
or set new values. Environment variables (TEJOCR_*) and command-line flags
override stored settings at runtime.

Available keys:
  engine_path        - Path to the Tesseract executable
  default_language   - Default OCR language code
  default_grayscale  - Convert images to grayscale by default (true/false)
  default_binarize   - Binarize images by default (true/false)
  last_language      - Last language used (updated automatically)
  last_output_mode   - Last output mode used (updated automatically)

Examples:
  tejocr config list                                  # List all settings
  tejocr config get engine_path                       # Get the engine path
  tejocr config set engine_path /usr/local/bin/tesseract
  tejocr config set default_language deu              # Default to German`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "list":
			listConfig()
		case "get":
			if len(args) < 2 {
				fmt.Println("Error: 'get' command requires a key name")
				fmt.Println("Usage: tejocr config get <key>")
				return
			}
			getConfig(args[1])
		case "set":
			if len(args) < 3 {
				fmt.Println("Error: 'set' command requires a key and value")
				fmt.Println("Usage: tejocr config set <key> <value>")
				return
			}
			setConfig(args[1], args[2])
		default:
			fmt.Printf("Error: Unknown config command '%s'\n", args[0])
			fmt.Println("Available commands: list, get, set")
		}
	},
}

// listConfig lists all persistent settings
func listConfig() {
	fmt.Println("⚙️  TejOCR Settings")
	fmt.Println("===================")

	store := config.DefaultStore()
	fmt.Printf("📁 Config file: %s\n\n", store.Path())

	for _, key := range store.Keys() {
		fmt.Printf("  %-20s = %s\n", key, getDisplayValue(store.Get(key, "")))
	}

	fmt.Println("\n💡 Tip: Use 'tejocr config set <key> <value>' to change a setting")
	fmt.Println("💡 Note: TEJOCR_* environment variables and flags override these at runtime")
}

// getConfig gets a specific setting value
func getConfig(key string) {
	store := config.DefaultStore()
	fmt.Printf("📝 %s = %s\n", key, getDisplayValue(store.Get(key, "")))
}

// setConfig sets a specific setting value
func setConfig(key, value string) {
	store := config.DefaultStore()
	if err := store.Set(key, value); err != nil {
		fmt.Printf("❌ Error setting config value '%s': %v\n", key, err)
		return
	}

	fmt.Printf("✅ Successfully set %s = %s\n", key, value)
	if key == constants.CfgKeyEnginePath {
		fmt.Println("💡 Tip: Run 'tejocr --check' to verify the engine at this path")
	}
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Run: func(cmd *cobra.Command, args []string) {
		listConfig()
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific setting value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		getConfig(args[0])
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific setting value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setConfig(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
