package handler

import "errors"

// Ошибки реестра handler'ов.
var (
	// ErrDuplicateHandler — тип шага уже зарегистрирован,
	// а режим override выключен.
	ErrDuplicateHandler = errors.New("handler already registered for step type")

	// ErrUnknownHandler — для типа шага нет зарегистрированного handler'а.
	ErrUnknownHandler = errors.New("unknown step type")

	// ErrNilFactory — попытка зарегистрировать nil-фабрику.
	ErrNilFactory = errors.New("handler factory is nil")

	// ErrEmptyStepType — тип шага пустой.
	ErrEmptyStepType = errors.New("step type is empty")
)
