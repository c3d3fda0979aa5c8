package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tejocr/tejocr/pkg/config"
	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/engine"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/output"
	"github.com/tejocr/tejocr/pkg/pipeline"
	"github.com/tejocr/tejocr/pkg/types"
	"github.com/tejocr/tejocr/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	flagLang       string
	flagPSM        int
	flagOEM        int
	flagGrayscale  bool
	flagBinarize   bool
	flagEnginePath string
	flagTimeout    int
	flagOutputTo   string
	flagOutputFile string
	verbose        bool
	runCheck       bool
	showVersion    bool
)

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	config   *config.Config
	logger   *logger.Logger
	pipeline *pipeline.Pipeline
}

// NewAppHandler creates an application handler
func NewAppHandler() *AppHandler {
	return &AppHandler{}
}

// RecognizeFile is the main entry point: run OCR on an image file and
// deliver the text to the selected destination.
func (h *AppHandler) RecognizeFile(cmd *cobra.Command, inputFile string) error {
	absPath, err := filepath.Abs(inputFile)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "error resolving file path")
	}

	if err := h.initialize(cmd); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(h.config.TimeoutSeconds)*time.Second)
	defer cancel()

	result := h.pipeline.Run(ctx, types.FileSource(absPath), h.config.Options(), nil)
	if !result.Success {
		// The pipeline already classified and logged the failure; the
		// message alone is what the user needs.
		return errors.New(result.Message)
	}

	h.rememberLastUsed()
	return h.deliver(result.Text)
}

// rememberLastUsed persists the language and destination of a successful
// run so settings UIs can preselect them. Best-effort.
func (h *AppHandler) rememberLastUsed() {
	store := config.DefaultStore()
	if err := store.Set(constants.CfgKeyLastLang, h.config.Language); err != nil {
		h.logger.Debug("Could not record last language: %v", err)
	}
	if err := store.Set(constants.CfgKeyLastOutputMode, flagOutputTo); err != nil {
		h.logger.Debug("Could not record last output mode: %v", err)
	}
}

// initialize loads configuration, applies flag overrides, and builds the
// logger and pipeline.
func (h *AppHandler) initialize(cmd *cobra.Command) error {
	h.config = config.LoadConfig()
	h.applyCommandLineOverrides(cmd)

	if err := h.config.Validate(); err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "configuration validation failed")
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)
	h.pipeline = pipeline.New(h.config, h.logger, nil,
		pipeline.WithSettingsStore(config.DefaultStore()),
		pipeline.WithObserver(func(message string) {
			h.logger.Progress("🔄", "%s", message)
		}),
	)
	return nil
}

// applyCommandLineOverrides layers explicitly set flags over the loaded
// configuration. Flags the user did not touch leave store and environment
// values in place.
func (h *AppHandler) applyCommandLineOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("lang") {
		h.config.Language = flagLang
	}
	if flags.Changed("psm") {
		h.config.PSM = flagPSM
	}
	if flags.Changed("oem") {
		h.config.OEM = flagOEM
	}
	if flags.Changed("grayscale") {
		h.config.Grayscale = flagGrayscale
	}
	if flags.Changed("binarize") {
		h.config.Binarize = flagBinarize
	}
	if flags.Changed("engine-path") {
		h.config.EnginePath = flagEnginePath
	}
	if flags.Changed("timeout") {
		h.config.TimeoutSeconds = flagTimeout
	}
	if verbose {
		h.config.EnableVerbose = true
		h.config.LogLevel = "debug"
	}
}

// deliver sends recognized text to stdout, the clipboard, or a file. The
// text goes out verbatim; nothing is trimmed or re-wrapped.
func (h *AppHandler) deliver(text string) error {
	switch flagOutputTo {
	case "stdout", "":
		fmt.Print(text)
		return nil
	case "clipboard":
		router := output.NewOutputRouter(h.logger)
		clip := output.NewSystemClipboard(h.logger)
		if _, err := router.Dispatch(text, types.OutputModeClipboard, nil, clip); err != nil {
			return err
		}
		h.logger.ProgressAlways("📋", "Recognized text copied to clipboard (%d characters)", len(text))
		return nil
	case "file":
		if flagOutputFile == "" {
			return utils.NewValidationError("--output file requires -o <path>", nil)
		}
		destPath, err := filepath.Abs(flagOutputFile)
		if err != nil {
			return utils.WrapError(err, utils.ErrorTypeValidation, "error resolving output path")
		}
		if utils.FileExists(destPath) {
			h.logger.Info("Overwriting existing output file: %s", destPath)
		}
		if err := os.WriteFile(destPath, []byte(text), constants.DefaultFilePermission); err != nil {
			return utils.NewIOError("could not write output file: "+destPath, err)
		}
		h.logger.ProgressAlways("💾", "Recognized text written to %s", destPath)
		return nil
	default:
		return utils.NewValidationError(
			"unknown output destination: "+flagOutputTo+" (expected stdout, clipboard, or file)", nil)
	}
}

// CheckSetup is the doctor mode behind --check: report whether the OCR
// engine is installed, executable, and which languages it offers.
func (h *AppHandler) CheckSetup(cmd *cobra.Command) error {
	if err := h.initialize(cmd); err != nil {
		return err
	}

	fmt.Println("🔍 TejOCR Setup Check")
	fmt.Println("=====================")

	locator := engine.NewEngineLocator(h.logger)
	enginePath, err := locator.Locate(h.config.EnginePath)
	if err != nil {
		fmt.Printf("❌ OCR engine: not found\n")
		if appErr, ok := err.(*utils.AppError); ok {
			fmt.Printf("   %s\n", appErr.Message)
		}
		return utils.NewEngineNotFoundError("setup check failed", err)
	}
	fmt.Printf("✅ OCR engine: %s\n", enginePath)

	ctx, cancel := context.WithTimeout(context.Background(),
		constants.VersionProbeTimeoutSeconds*time.Second)
	defer cancel()

	version, err := locator.Validate(ctx, enginePath)
	if err != nil {
		fmt.Printf("❌ Engine check: %v\n", err)
		return err
	}
	fmt.Printf("✅ Engine version: %s\n", version)

	if prefix := engine.DeriveTessdataPrefix(enginePath); prefix != "" {
		fmt.Printf("✅ Language data: %s\n", prefix)
	}

	ocr := engine.NewTesseractEngine(enginePath, h.config.TimeoutSeconds, h.logger)
	langs := ocr.Languages(ctx)
	fmt.Printf("✅ Available languages (%d): %v\n", len(langs), langs)

	fmt.Println("\n💡 Everything looks good. Run 'tejocr <image>' to recognize text.")
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tejocr [image_file]",
	Short: "A CLI tool for extracting text from images using Tesseract OCR",
	Long: `A CLI tool for extracting text from images using the Tesseract OCR engine.

The engine is located automatically: a configured path wins, then PATH,
then the platform's conventional install directories. Recognized text is
returned exactly as the engine produced it.

Supported image formats: PNG, JPEG, GIF, BMP, TIFF, WebP.

Preprocessing:
- --grayscale converts the image to grayscale before recognition
- --binarize thresholds it to black and white (implies grayscale)

Examples:
  tejocr scan.png                                  # Recognize and print to stdout
  tejocr scan.png --lang deu                       # Recognize German text
  tejocr scan.png --psm 6 --oem 1                  # Tune segmentation and engine mode
  tejocr scan.png --binarize                       # Preprocess before recognition
  tejocr scan.png --output clipboard               # Copy result to the clipboard
  tejocr scan.png --output file -o result.txt      # Write result to a file
  tejocr --check                                   # Verify the OCR engine setup
  tejocr scan.png --engine-path /opt/tesseract/bin/tesseract`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("tejocr %s\n", version)
			return
		}

		handler := NewAppHandler()

		if runCheck {
			if err := handler.CheckSetup(cmd); err != nil {
				os.Exit(1)
			}
			return
		}

		if len(args) == 0 {
			cmd.Help()
			return
		}

		if err := handler.RecognizeFile(cmd, args[0]); err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				log.Fatalf("Error (%s): %s", appErr.Type, appErr.Message)
			} else {
				log.Fatalf("Error: %v", err)
			}
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagLang, "lang", "l", constants.DefaultOcrLanguage,
		"OCR language code (e.g. eng, deu, fra; install the matching tessdata)")
	rootCmd.Flags().IntVar(&flagPSM, "psm", constants.DefaultPSM,
		"Page segmentation mode (0-13)")
	rootCmd.Flags().IntVar(&flagOEM, "oem", constants.DefaultOEM,
		"OCR engine mode (0-3)")
	rootCmd.Flags().BoolVar(&flagGrayscale, "grayscale", false,
		"Convert the image to grayscale before recognition")
	rootCmd.Flags().BoolVar(&flagBinarize, "binarize", false,
		"Threshold the image to black and white before recognition (implies grayscale)")
	rootCmd.Flags().StringVar(&flagEnginePath, "engine-path", "",
		"Path to the Tesseract executable (overrides config and PATH search)")
	rootCmd.Flags().IntVar(&flagTimeout, "timeout", constants.DefaultTimeoutSeconds,
		"Recognition timeout in seconds")
	rootCmd.Flags().StringVar(&flagOutputTo, "output", "stdout",
		"Output destination (stdout, clipboard, file)")
	rootCmd.Flags().StringVarP(&flagOutputFile, "output-file", "o", "",
		"Output file path, used with --output file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	rootCmd.Flags().BoolVar(&runCheck, "check", false,
		"Check the OCR engine installation and exit")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")
}
