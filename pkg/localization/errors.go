package localization

import "errors"

var (
	ErrInvalidConfig   = errors.New("localization: invalid config")
	ErrInvalidLanguage = errors.New("localization: invalid language code")
	ErrUnknownLanguage = errors.New("localization: unknown language")
	ErrNotLoaded       = errors.New("localization: source not loaded")
)
