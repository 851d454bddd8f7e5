package vlan

import (
	"fmt"
	"strconv"
	"strings"
)

// ReservedVlanID is the switch default VLAN. It can be neither created
// nor deleted through this service.
const ReservedVlanID = 1

const (
	minVlanID   = 1
	maxVlanID   = 4094
	maxNameLen  = 32
	maskOctets  = 4
	maskMaxByte = 255
)

// ValidateVlanIDString parses and validates a VLAN id given as text.
func ValidateVlanIDString(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "vlan_id", Message: "VLAN ID must be numeric"}
	}
	return id, ValidateVlanID(id)
}

// ValidateVlanID checks the 1-4094 range and rejects the reserved
// default VLAN.
func ValidateVlanID(id int) error {
	if id < minVlanID || id > maxVlanID {
		return &ValidationError{
			Field:   "vlan_id",
			Message: fmt.Sprintf("VLAN ID must be between %d-%d, got %d", minVlanID, maxVlanID, id),
		}
	}
	if id == ReservedVlanID {
		return &ValidationError{Field: "vlan_id", Message: "VLAN 1 is reserved (default VLAN)"}
	}
	return nil
}

// ValidateVlanName rejects empty names, names over 32 characters and the
// characters the IOS/NX-OS CLI cannot take in a name argument.
func ValidateVlanName(name string) error {
	if name == "" {
		return &ValidationError{Field: "vlan_name", Message: "VLAN name cannot be empty"}
	}
	if len(name) > maxNameLen {
		return &ValidationError{
			Field:   "vlan_name",
			Message: fmt.Sprintf("VLAN name cannot exceed %d characters", maxNameLen),
		}
	}
	for _, c := range []string{"?", `"`, "'"} {
		if strings.Contains(name, c) {
			return &ValidationError{
				Field:   "vlan_name",
				Message: "VLAN name contains invalid character: " + c,
			}
		}
	}
	return nil
}

// ValidateSubnetMask requires four dot-separated octets in 0-255.
// Non-contiguous masks (255.0.255.0) pass; the mask is bookkeeping
// metadata, not something pushed to the device.
func ValidateSubnetMask(mask string) error {
	octets := strings.Split(mask, ".")
	if len(octets) != maskOctets {
		return &ValidationError{Field: "subnet_mask", Message: "invalid subnet mask format"}
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil {
			return &ValidationError{Field: "subnet_mask", Message: "invalid subnet mask format"}
		}
		if n < 0 || n > maskMaxByte {
			return &ValidationError{Field: "subnet_mask", Message: "octet must be between 0-255"}
		}
	}
	return nil
}

// MaxHosts returns usable host addresses under the mask: 2^zeros - 2,
// or 0 for /31 and /32.
func MaxHosts(mask string) int {
	if err := ValidateSubnetMask(mask); err != nil {
		return 0
	}
	ones := 0
	for _, o := range strings.Split(mask, ".") {
		n, _ := strconv.Atoi(o)
		for ; n > 0; n >>= 1 {
			ones += n & 1
		}
	}
	zeros := 32 - ones
	if zeros < 2 {
		return 0
	}
	return (1 << zeros) - 2
}
