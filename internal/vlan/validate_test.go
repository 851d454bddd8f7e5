package vlan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVlanID(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		wantErr bool
	}{
		{"lowest usable", 2, false},
		{"highest", 4094, false},
		{"typical", 100, false},
		{"reserved default vlan", 1, true},
		{"zero", 0, true},
		{"negative", -5, true},
		{"above range", 4095, true},
		{"far above range", 99999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVlanID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVlanID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVlanIDString(t *testing.T) {
	id, err := ValidateVlanIDString(" 200 ")
	assert.NoError(t, err)
	assert.Equal(t, 200, id)

	_, err = ValidateVlanIDString("abc")
	assert.Error(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "vlan_id", vErr.Field)
}

func TestValidateVlanName(t *testing.T) {
	tests := []struct {
		name    string
		vlan    string
		wantErr bool
	}{
		{"simple", "engineering", false},
		{"with spaces", "guest wifi", false},
		{"exactly 32 chars", strings.Repeat("a", 32), false},
		{"empty", "", true},
		{"33 chars", strings.Repeat("a", 33), true},
		{"question mark", "lab?", true},
		{"double quote", `lab"1`, true},
		{"single quote", "lab'1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVlanName(tt.vlan)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVlanName(%q) error = %v, wantErr %v", tt.vlan, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubnetMask(t *testing.T) {
	tests := []struct {
		name    string
		mask    string
		wantErr bool
	}{
		{"class C", "255.255.255.0", false},
		{"host mask", "255.255.255.255", false},
		{"zero mask", "0.0.0.0", false},
		// non-contiguous masks pass on purpose
		{"non-contiguous", "255.0.255.0", false},
		{"three octets", "255.255.255", true},
		{"five octets", "255.255.255.0.0", true},
		{"octet too large", "255.255.256.0", true},
		{"negative octet", "255.-1.255.0", true},
		{"non-numeric", "255.255.abc.0", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubnetMask(tt.mask)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubnetMask(%q) error = %v, wantErr %v", tt.mask, err, tt.wantErr)
			}
		})
	}
}

func TestMaxHosts(t *testing.T) {
	assert.Equal(t, 254, MaxHosts("255.255.255.0"))
	assert.Equal(t, 510, MaxHosts("255.255.254.0"))
	assert.Equal(t, 2, MaxHosts("255.255.255.252"))
	// /31 and /32 have no usable hosts
	assert.Equal(t, 0, MaxHosts("255.255.255.254"))
	assert.Equal(t, 0, MaxHosts("255.255.255.255"))
	// invalid mask degrades to 0
	assert.Equal(t, 0, MaxHosts("not.a.mask.at all"))
}
