package port

// ClipboardPort - запись в системный буфер обмена.
type ClipboardPort interface {
	WriteAll(text string) error
}
