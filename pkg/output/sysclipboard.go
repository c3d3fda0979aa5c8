package output

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/tejocr/tejocr/pkg/constants"
	"github.com/tejocr/tejocr/pkg/logger"
	"github.com/tejocr/tejocr/pkg/utils"
)

const clipboardTimeout = 10 * time.Second

// SystemClipboard writes text to the OS clipboard by piping it into the
// platform's clipboard tool (pbcopy, wl-copy, xclip, xsel, clip.exe). The
// candidate commands are tried in order; the first one found on PATH wins.
type SystemClipboard struct {
	logger   *logger.Logger
	commands [][]string

	// resolved caches the first working command between calls.
	resolved []string
}

// NewSystemClipboard creates a clipboard sink using the current platform's
// candidate tools.
func NewSystemClipboard(log *logger.Logger) *SystemClipboard {
	return &SystemClipboard{
		logger:   log,
		commands: constants.GetPlatformConfig().ClipboardCommands,
	}
}

// SetText places text on the system clipboard as plain UTF-8.
func (c *SystemClipboard) SetText(text string) error {
	argv, err := c.resolve()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, runErr := cmd.CombinedOutput(); runErr != nil {
		c.logger.Debug("Clipboard command %v failed: %v (%s)", argv, runErr, strings.TrimSpace(string(out)))
		return utils.NewOutputDispatchError(
			"clipboard tool "+argv[0]+" failed to accept the text", runErr)
	}
	c.logger.Debug("Copied %d characters to clipboard via %s", len(text), argv[0])
	return nil
}

// resolve finds the first candidate clipboard tool present on PATH.
func (c *SystemClipboard) resolve() ([]string, error) {
	if c.resolved != nil {
		return c.resolved, nil
	}
	tried := make([]string, 0, len(c.commands))
	for _, argv := range c.commands {
		if len(argv) == 0 {
			continue
		}
		if _, err := exec.LookPath(argv[0]); err == nil {
			c.resolved = argv
			return argv, nil
		}
		tried = append(tried, argv[0])
	}
	return nil, utils.NewOutputDispatchError(
		"no clipboard tool found (tried: "+strings.Join(tried, ", ")+"); install one or choose a different output mode", nil)
}
