package vlan

import (
	"errors"
	"fmt"
)

// Errors the HTTP layer maps to status codes. Validation and ownership
// errors are returned before any device contact.
var (
	ErrNotFound  = errors.New("vlan not found")
	ErrConflict  = errors.New("vlan id already registered")
	ErrForbidden = errors.New("permission denied")
)

// ValidationError is a per-field input rejection. It never reaches the
// device or the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DeviceOpError is a command or save-config failure after a successful
// connect. Connect failures surface as *device.ConnectError instead.
type DeviceOpError struct {
	Op  string // "create" | "update" | "delete" | "save"
	Err error
}

func (e *DeviceOpError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceOpError) Unwrap() error { return e.Err }
