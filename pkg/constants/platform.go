package constants

import "runtime"

// PlatformConfig carries the per-OS locations and helper tools the engine
// locator and clipboard sink probe.
type PlatformConfig struct {
	// EngineBinaryNames are the names tried against PATH, in order.
	EngineBinaryNames []string
	// EngineWellKnownDirs are conventional install directories probed after
	// PATH search fails.
	EngineWellKnownDirs []string
	// ClipboardCommands are candidate [command, args...] invocations that
	// read text from stdin and place it on the system clipboard.
	ClipboardCommands [][]string
	TempDirPrefix     string
}

// GetPlatformConfig returns platform-specific tool locations.
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "windows":
		return &PlatformConfig{
			EngineBinaryNames: []string{"tesseract.exe"},
			EngineWellKnownDirs: []string{
				"C:\\Program Files\\Tesseract-OCR",
				"C:\\Program Files (x86)\\Tesseract-OCR",
			},
			ClipboardCommands: [][]string{
				{"clip.exe"},
			},
			TempDirPrefix: "tejocr-",
		}
	case "darwin":
		return &PlatformConfig{
			EngineBinaryNames: []string{"tesseract"},
			EngineWellKnownDirs: []string{
				"/usr/local/bin",
				"/opt/homebrew/bin",
				"/usr/bin",
			},
			ClipboardCommands: [][]string{
				{"pbcopy"},
			},
			TempDirPrefix: "tejocr-",
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			EngineBinaryNames: []string{"tesseract"},
			EngineWellKnownDirs: []string{
				"/usr/bin",
				"/usr/local/bin",
				"/snap/bin",
			},
			ClipboardCommands: [][]string{
				{"wl-copy"},
				{"xclip", "-selection", "clipboard"},
				{"xsel", "--clipboard", "--input"},
			},
			TempDirPrefix: "tejocr-",
		}
	}
}

// ExecutableExt is the platform executable file extension.
var ExecutableExt = getExecutableExtension()

func getExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// IsWindows returns true if running on Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// IsUnixLike returns true if running on a Unix-like system (macOS, Linux, etc.)
func IsUnixLike() bool {
	return runtime.GOOS != "windows"
}
