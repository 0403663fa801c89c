package ui

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/atotto/clipboard"

	"prospectsheet/internal/util/logx"
)

// copyToClipboard uses the system clipboard and falls back to OSC52 when no
// clipboard tool is available (e.g. over SSH).
func copyToClipboard(s string) error {
	s = stripANSI(s)
	err := clipboard.WriteAll(s)
	if err == nil {
		return nil
	}
	logx.Debugf("clipboard: %v; falling back to OSC52", err)
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(s)))
	// Write to /dev/tty to avoid clobbering the program's stdout buffer
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, err = f.WriteString(payload)
		return err
	}
	_, err = fmt.Fprint(os.Stdout, payload)
	return err
}
