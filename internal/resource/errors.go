package resource

import "errors"

// Ошибки менеджера ресурсов.
var (
	// ErrUnsatisfiable — запрошено больше единиц, чем общая ёмкость.
	// Такой запрос невыполним в принципе и не ставится в очередь.
	ErrUnsatisfiable = errors.New("requested units exceed total capacity")

	// ErrInvalidUnits — запрошено некорректное количество единиц (<= 0).
	ErrInvalidUnits = errors.New("requested units must be positive")

	// ErrInvalidCapacity — ёмкость менеджера некорректна (<= 0).
	ErrInvalidCapacity = errors.New("capacity must be positive")
)
