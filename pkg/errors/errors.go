package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidRange      = errors.New("value out of range")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInvalidState      = errors.New("invalid state")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrParentChanged     = errors.New("parent profile cannot be changed")
	ErrConfigNotFound    = errors.New("config not found")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrDeviceError       = errors.New("device returned an error")
	ErrMalformedResponse = errors.New("malformed device response")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDeleteFailed      = errors.New("failed to delete the resource")
	ErrTransportUnknown  = errors.New("unknown transport")
	ErrShellUnavailable  = errors.New("unable to open shell")
	ErrUnknownModuleKind = errors.New("unknown module kind")
)

// NewRangeError reports a parameter whose value falls outside its valid range.
// NewRangeError 报告取值超出合法范围的参数。
func NewRangeError(param string, hint string) error {
	return fmt.Errorf("%w: valid '%s' must be in range %s", ErrInvalidRange, param, hint)
}

// NewChoiceError reports a parameter set to a value outside its choice list.
// NewChoiceError 报告取值不在可选列表内的参数。
func NewChoiceError(param string, value interface{}) error {
	return fmt.Errorf("%w: parameter=%s value=%v", ErrInvalidChoice, param, value)
}

func NewMissingError(param string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, param)
}

// NewDeviceError surfaces a device-reported failure message verbatim.
// NewDeviceError 将设备报告的失败信息原样透出。
func NewDeviceError(message string) error {
	return fmt.Errorf("%w: %s", ErrDeviceError, message)
}

func NewConfigError(field string, value interface{}) error {
	return fmt.Errorf("%w: field=%s value=%v", ErrConfigInvalid, field, value)
}

func NewKindError(kind string) error {
	return fmt.Errorf("%w: %s", ErrUnknownModuleKind, kind)
}
