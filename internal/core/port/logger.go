package port

// Fields - структурированные данные, которые прикладываются к записи лога.
type Fields map[string]interface{}

// LoggerPort - контракт логгера, которым пользуется ядро и адаптеры.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error пишет ошибку; err может быть nil.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает новый логгер с добавленным контекстом,
	// исходный логгер не меняется.
	WithFields(fields Fields) LoggerPort
}
