package registry

import (
	"encoding/hex"
	"strconv"

	"campusledger/core/types"
)

const (
	TypeStudentAdded    = "registry.student.added"
	TypeStudentRemoved  = "registry.student.removed"
	TypeProviderAdded   = "registry.provider.added"
	TypeProviderRemoved = "registry.provider.removed"
	TypeProviderUpdated = "registry.provider.updated"
)

func newStudentAddedEvent(id [20]byte) *types.Event {
	return &types.Event{Type: TypeStudentAdded, Attributes: map[string]string{
		"student": hex.EncodeToString(id[:]),
	}}
}

func newStudentRemovedEvent(id [20]byte) *types.Event {
	return &types.Event{Type: TypeStudentRemoved, Attributes: map[string]string{
		"student": hex.EncodeToString(id[:]),
	}}
}

func providerAttributes(id [20]byte, p *Provider) map[string]string {
	attrs := map[string]string{"provider": hex.EncodeToString(id[:])}
	if p == nil {
		return attrs
	}
	attrs["name"] = p.Name
	attrs["category"] = p.Category
	attrs["active"] = strconv.FormatBool(p.Active)
	return attrs
}

func newProviderAddedEvent(id [20]byte, p *Provider) *types.Event {
	return &types.Event{Type: TypeProviderAdded, Attributes: providerAttributes(id, p)}
}

func newProviderRemovedEvent(id [20]byte) *types.Event {
	return &types.Event{Type: TypeProviderRemoved, Attributes: map[string]string{
		"provider": hex.EncodeToString(id[:]),
	}}
}

func newProviderUpdatedEvent(id [20]byte, p *Provider) *types.Event {
	return &types.Event{Type: TypeProviderUpdated, Attributes: providerAttributes(id, p)}
}
