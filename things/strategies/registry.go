package strategies

import (
	"github.com/twinforge/thing-engine-go/things/commands"
)

// Registry resolves the strategy for a command type. It is populated once at
// construction and immutable afterwards, so lookups are safe for concurrent use.
type Registry struct {
	byType map[string]Strategy
}

// NewRegistry creates a Registry with all built-in command strategies registered.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Strategy, 32)}

	r.register(commands.CreateThingType, createThingStrategy{})
	r.register(commands.ModifyThingType, modifyThingStrategy{})
	r.register(commands.DeleteThingType, deleteThingStrategy{})
	r.register(commands.RetrieveThingType, retrieveThingStrategy{})

	r.register(commands.ModifyPolicyIDType, modifyPolicyIDStrategy{})
	r.register(commands.RetrievePolicyIDType, retrievePolicyIDStrategy{})

	r.register(commands.ModifyDefinitionType, modifyDefinitionStrategy{})
	r.register(commands.DeleteDefinitionType, deleteDefinitionStrategy{})

	r.register(commands.ModifyAttributesType, modifyAttributesStrategy{})
	r.register(commands.DeleteAttributesType, deleteAttributesStrategy{})
	r.register(commands.ModifyAttributeType, modifyAttributeStrategy{})
	r.register(commands.DeleteAttributeType, deleteAttributeStrategy{})
	r.register(commands.RetrieveAttributeType, retrieveAttributeStrategy{})

	r.register(commands.ModifyFeaturesType, modifyFeaturesStrategy{})
	r.register(commands.DeleteFeaturesType, deleteFeaturesStrategy{})
	r.register(commands.ModifyFeatureType, modifyFeatureStrategy{})
	r.register(commands.DeleteFeatureType, deleteFeatureStrategy{})
	r.register(commands.RetrieveFeatureType, retrieveFeatureStrategy{})
	r.register(commands.ModifyFeatureDefinitionType, modifyFeatureDefinitionStrategy{})
	r.register(commands.DeleteFeatureDefinitionType, deleteFeatureDefinitionStrategy{})

	r.register(commands.ModifyFeaturePropertiesType, modifyFeaturePropertiesStrategy{})
	r.register(commands.DeleteFeaturePropertiesType, deleteFeaturePropertiesStrategy{})
	r.register(commands.ModifyFeaturePropertyType, modifyFeaturePropertyStrategy{})
	r.register(commands.DeleteFeaturePropertyType, deleteFeaturePropertyStrategy{})
	r.register(commands.RetrieveFeaturePropertyType, retrieveFeaturePropertyStrategy{})

	r.register(commands.ModifyFeatureDesiredPropertiesType, modifyFeatureDesiredPropertiesStrategy{})
	r.register(commands.DeleteFeatureDesiredPropertiesType, deleteFeatureDesiredPropertiesStrategy{})
	r.register(commands.ModifyFeatureDesiredPropertyType, modifyFeatureDesiredPropertyStrategy{})
	r.register(commands.DeleteFeatureDesiredPropertyType, deleteFeatureDesiredPropertyStrategy{})
	r.register(commands.RetrieveFeatureDesiredPropertyType, retrieveFeatureDesiredPropertyStrategy{})

	return r
}

func (r *Registry) register(commandType string, s Strategy) {
	r.byType[commandType] = s
}

// Resolve returns the strategy for the command, or UnsupportedCommandError
// when no strategy is registered for its type.
func (r *Registry) Resolve(cmd commands.Command) (Strategy, error) {
	s, ok := r.byType[cmd.CommandType()]
	if !ok {
		return nil, &UnsupportedCommandError{CommandType: cmd.CommandType()}
	}

	return s, nil
}

// CommandTypes returns all registered command type identifiers.
func (r *Registry) CommandTypes() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}

	return types
}
