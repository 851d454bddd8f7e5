package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleBrief = `
VLAN Name                             Status    Ports
---- -------------------------------- --------- -------------------------------
1    default                          active    Eth1/1, Eth1/2, Eth1/3
100  engineering                      active    Eth1/10
200  guest-wifi                       suspended
`

func TestParseVlanBrief(t *testing.T) {
	vlans := ParseVlanBrief(sampleBrief)
	assert.Equal(t, []BriefVlan{
		{VlanID: 1, Name: "default", Status: "active"},
		{VlanID: 100, Name: "engineering", Status: "active"},
		{VlanID: 200, Name: "guest-wifi", Status: "suspended"},
	}, vlans)
}

func TestParseVlanBriefSkipsGarbage(t *testing.T) {
	assert.Empty(t, ParseVlanBrief(""))
	assert.Empty(t, ParseVlanBrief("VLAN Name Status\n---- ---- ----\nnot-a-row here\n"))
}

func TestVlanMissing(t *testing.T) {
	assert.True(t, VlanMissing("VLAN 999 not found in current VLAN database"))
	assert.True(t, VlanMissing("ERROR: Invalid VLAN id"))
	assert.False(t, VlanMissing("100  engineering  active"))
}

func TestConfigScript(t *testing.T) {
	got := configScript([]string{"vlan 100", "name lab"})
	assert.Equal(t, "configure terminal\nvlan 100\nname lab\nend", got)
}
