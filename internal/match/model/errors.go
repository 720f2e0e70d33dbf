package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration — параметры не согласуются с данными
// (колонки нет в датасете, вес/порог вне диапазона).
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError уточняет, какая колонка/параметр и на какой стороне не подошли.
type ConfigError struct {
	Column string // имя колонки или параметра
	Side   string // "A", "B" или "" для одного датасета
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%s: %q (dataset %s): %s", ErrInvalidConfiguration, e.Column, e.Side, e.Reason)
	}
	return fmt.Sprintf("%s: %q: %s", ErrInvalidConfiguration, e.Column, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

func MissingColumn(col, side string) error {
	return &ConfigError{Column: col, Side: side, Reason: "column not found"}
}
