package commands

import (
	"github.com/twinforge/thing-engine-go/things/model"
)

// Command type identifiers for thing-definition commands.
const (
	ModifyDefinitionType = "things.commands:modifyDefinition"
	DeleteDefinitionType = "things.commands:deleteDefinition"
)

// ModifyDefinition requests replacement (or creation) of the thing definition.
type ModifyDefinition struct {
	base
	Definition model.DefinitionID
}

// BuildModifyDefinition creates a ModifyDefinition command.
func BuildModifyDefinition(id model.ThingID, definition model.DefinitionID, headers Headers) ModifyDefinition {
	return ModifyDefinition{base: base{id: id, headers: headers}, Definition: definition}
}

func (c ModifyDefinition) CommandType() string { return ModifyDefinitionType }

// DeleteDefinition requests removal of the thing definition.
type DeleteDefinition struct {
	base
}

// BuildDeleteDefinition creates a DeleteDefinition command.
func BuildDeleteDefinition(id model.ThingID, headers Headers) DeleteDefinition {
	return DeleteDefinition{base: base{id: id, headers: headers}}
}

func (c DeleteDefinition) CommandType() string { return DeleteDefinitionType }
