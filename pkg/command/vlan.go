package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/newtron-network/netsim/pkg/model"
	"github.com/newtron-network/netsim/pkg/util"
)

// defaultVLAN is always present and never stored in Device.VLANs.
const defaultVLAN = 1

type vlanHandler struct{}

func (vlanHandler) Name() string { return "vlan" }

func (h vlanHandler) Handle(c *Context) *model.CommandResult {
	switch {
	case c.Is("display vlan", "show vlan", "show vlan brief"):
		return model.Ok(vlanTable(c.Device))

	case c.HasPrefix("display vlan ", "show vlan id "):
		return h.detail(c)

	case c.HasPrefix("vlan batch "):
		return h.batch(c)

	case c.HasPrefix("vlan "):
		return h.create(c)

	case c.HasPrefix("undo vlan batch ", "no vlan batch "):
		return h.deleteBatch(c)

	case c.HasPrefix("undo vlan ", "no vlan "):
		return h.delete(c)

	case c.HasPrefix("name ") && c.View == model.SystemView:
		return model.Okf("VLAN name set to '%s'", c.After("name "))
	}
	return nil
}

func (vlanHandler) detail(c *Context) *model.CommandResult {
	id, err := strconv.Atoi(c.Last())
	if err != nil {
		return model.Fail("Error: Invalid VLAN ID")
	}
	if !c.Device.HasVLAN(id) {
		return model.Errorf("VLAN %d not found", id)
	}
	name := vlanName(id)
	ports := vlanMembers(c.Device, id)
	if len(ports) == 0 {
		ports = []string{"(none assigned)"}
	}
	return model.Okf("VLAN %d\n  Name: %s\n  Status: active\n  Ports: %s", id, name, strings.Join(ports, ", "))
}

func (vlanHandler) create(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	id, err := util.ParseVLANID(c.After("vlan "))
	if err != nil {
		return model.Fail("Error: Invalid VLAN ID. Must be 1-4094.")
	}
	if id != defaultVLAN {
		c.Device.AddVLAN(id)
	}
	return model.Okf("VLAN %d created", id)
}

// batch parses the whole list before touching the device, so a bad
// entry leaves the VLAN set unchanged.
func (vlanHandler) batch(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	ids, err := util.ParseVLANBatch(c.After("vlan batch "))
	if err != nil {
		return model.Errorf("%v", err)
	}
	added := 0
	for _, id := range ids {
		if id != defaultVLAN && c.Device.AddVLAN(id) {
			added++
		}
	}
	return model.Okf("%d VLANs created", added)
}

func (vlanHandler) delete(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	id, err := strconv.Atoi(c.Last())
	if err != nil {
		return model.Fail("Error: Invalid VLAN ID")
	}
	if id == defaultVLAN {
		return model.Fail("Error: Cannot delete VLAN 1 (default)")
	}
	if !c.Device.RemoveVLAN(id) {
		return model.Errorf("VLAN %d does not exist", id)
	}
	return model.Okf("VLAN %d deleted", id)
}

func (vlanHandler) deleteBatch(c *Context) *model.CommandResult {
	if r := c.require(model.SystemView); r != nil {
		return r
	}
	ids, err := util.ParseVLANBatch(c.After("undo vlan batch ", "no vlan batch "))
	if err != nil {
		return model.Errorf("%v", err)
	}
	removed := 0
	for _, id := range ids {
		if id != defaultVLAN && c.Device.RemoveVLAN(id) {
			removed++
		}
	}
	return model.Okf("%d VLANs deleted", removed)
}

func vlanName(id int) string {
	if id == defaultVLAN {
		return "default"
	}
	return fmt.Sprintf("VLAN%04d", id)
}

// vlanMembers lists ports carrying id: access ports by their VLAN (or
// VLAN 1 when unset) and trunk ports by their allowed list.
func vlanMembers(d *model.Device, id int) []string {
	var names []string
	for _, p := range d.Ports {
		switch p.Config.Mode {
		case model.ModeAccess:
			access := defaultVLAN
			if p.Config.VLAN != nil {
				access = *p.Config.VLAN
			}
			if access == id {
				names = append(names, p.Name)
			}
		case model.ModeTrunk:
			for _, v := range p.Config.AllowedVLANs {
				if v == id {
					names = append(names, p.Name)
					break
				}
			}
		}
	}
	return names
}

func vlanTable(d *model.Device) string {
	row := func(id, name, status string) string {
		return fmt.Sprintf("%-6s %-20s %-10s", id, name, status)
	}
	lines := []string{
		row("VLAN", "Name", "Status"),
		strings.Repeat("-", 40),
		row("1", "default", "active"),
	}
	total := 1
	for _, v := range d.VLANs {
		if v == defaultVLAN {
			continue
		}
		lines = append(lines, row(strconv.Itoa(v), vlanName(v), "active"))
		total++
	}
	lines = append(lines, "", fmt.Sprintf("Total VLANs: %d", total))
	return strings.Join(lines, "\n")
}
