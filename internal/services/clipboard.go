package services

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard copies answer text to the operating system clipboard.
type SystemClipboard struct{}

// Copy writes text to the clipboard.
func (SystemClipboard) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("error copying to clipboard: %w", err)
	}
	return nil
}
