package device

import (
	"strconv"
	"strings"
)

// BriefVlan is one row of "show vlan brief".
type BriefVlan struct {
	VlanID int    `json:"vlan_id"`
	Name   string `json:"vlan_name"`
	Status string `json:"status"`
}

// ParseVlanBrief extracts id/name/status rows from "show vlan brief"
// output, skipping headers and separators. Port columns are ignored.
func ParseVlanBrief(output string) []BriefVlan {
	var vlans []BriefVlan
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "VLAN") || strings.HasPrefix(line, "----") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		v := BriefVlan{VlanID: id, Name: parts[1]}
		if len(parts) > 2 {
			v.Status = parts[2]
		}
		vlans = append(vlans, v)
	}
	return vlans
}

// VlanMissing reports whether show output indicates the VLAN does not
// exist. Substring checks only; deeper output parsing is out of scope.
func VlanMissing(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "invalid")
}
