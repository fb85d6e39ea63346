package clipboard_adapter

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var ErrClipboardUnsupported = errors.New("system clipboard is not available")

// подменяется в тестах
var (
	clipboardWriteAll    = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

// SystemClipboard пишет в буфер обмена ОС (xclip/xsel/wl-copy, pbcopy, Windows API).
type SystemClipboard struct{}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

func (SystemClipboard) WriteAll(text string) error {
	if clipboardUnsupported() {
		return ErrClipboardUnsupported
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("write to clipboard: %w", err)
	}
	return nil
}
