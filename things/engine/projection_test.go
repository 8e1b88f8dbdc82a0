package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/engine"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

var projectionTime = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func givenSnapshot(t *testing.T) *model.Thing {
	t.Helper()

	created := events.BuildThingCreated(
		model.NewThing(model.MustThingID("org.example:lamp-1")).
			SetAttributes(map[string]any{"location": "lab"}).
			SetFeature(model.NewFeature("bulb").SetProperties(map[string]any{"on": true})),
		1, projectionTime, nil,
	)
	snapshot, err := engine.Project(nil, created)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	return snapshot
}

func Test_Project_ThingCreated_EstablishesRevisionOne(t *testing.T) {
	snapshot := givenSnapshot(t)

	assert.Equal(t, int64(1), snapshot.Revision())
	assert.Equal(t, projectionTime, snapshot.Modified())

	value, ok := snapshot.Attribute(model.MustPointer("/location"))
	require.True(t, ok)
	assert.Equal(t, "lab", value)
}

func Test_Project_ThingCreated_RejectsExistingThing(t *testing.T) {
	snapshot := givenSnapshot(t)
	created := events.BuildThingCreated(model.NewThing(snapshot.ID()), 2, projectionTime, nil)

	_, err := engine.Project(snapshot, created)

	assert.ErrorIs(t, err, engine.ErrInvalidEventState)
}

func Test_Project_RevisionGapsAndReplaysAreRejected(t *testing.T) {
	snapshot := givenSnapshot(t)

	tests := []struct {
		name     string
		revision int64
	}{
		{name: "replay_of_current_revision", revision: 1},
		{name: "gap_in_revisions", revision: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event := events.BuildAttributesDeleted(snapshot.ID(), tc.revision, projectionTime, nil)

			_, err := engine.Project(snapshot, event)

			assert.ErrorIs(t, err, engine.ErrEventOutOfOrder)
		})
	}
}

func Test_Project_ThingCreated_OnAbsentThingContinuesARevisionLine(t *testing.T) {
	// arrange - replaying a journal of create, delete, create
	created := events.BuildThingCreated(
		model.NewThing(model.MustThingID("org.example:lamp-1")), 3, projectionTime, nil,
	)

	// act
	snapshot, err := engine.Project(nil, created)

	// assert - the recreation establishes the revision the event carries
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, int64(3), snapshot.Revision())
}

func Test_Project_ThingDeleted_ProjectsToAbsent(t *testing.T) {
	snapshot := givenSnapshot(t)

	next, err := engine.Project(snapshot, events.BuildThingDeleted(snapshot.ID(), 2, projectionTime, nil))

	require.NoError(t, err)
	assert.Nil(t, next)
}

func Test_Project_MutationOfAbsentThingIsRejected(t *testing.T) {
	event := events.BuildAttributeCreated(
		model.MustThingID("org.example:lamp-1"), model.MustPointer("/location"), "lab", 1, projectionTime, nil,
	)

	_, err := engine.Project(nil, event)

	assert.ErrorIs(t, err, engine.ErrEntityGone)
}

func Test_Project_PartialEventsAdvanceStatePerPath(t *testing.T) {
	snapshot := givenSnapshot(t)
	id := snapshot.ID()

	tests := []struct {
		name   string
		event  events.Event
		verify func(t *testing.T, next *model.Thing)
	}{
		{
			name:  "policy_id_modified",
			event: events.BuildPolicyIDModified(id, model.MustPolicyID("org.example:policy-1"), 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				policyID, ok := next.PolicyID()
				require.True(t, ok)
				assert.Equal(t, "org.example:policy-1", policyID.String())
			},
		},
		{
			name:  "definition_created",
			event: events.BuildThingDefinitionCreated(id, "org.example:SmartLamp:1.0.0", 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				def, ok := next.Definition()
				require.True(t, ok)
				assert.Equal(t, model.DefinitionID("org.example:SmartLamp:1.0.0"), def)
			},
		},
		{
			name:  "attribute_modified",
			event: events.BuildAttributeModified(id, model.MustPointer("/location"), "cellar", 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				value, ok := next.Attribute(model.MustPointer("/location"))
				require.True(t, ok)
				assert.Equal(t, "cellar", value)
			},
		},
		{
			name:  "attributes_deleted",
			event: events.BuildAttributesDeleted(id, 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				_, ok := next.Attributes()
				assert.False(t, ok)
			},
		},
		{
			name:  "feature_property_modified",
			event: events.BuildFeaturePropertyModified(id, "bulb", model.MustPointer("/on"), false, 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				f, ok := next.Feature("bulb")
				require.True(t, ok)
				value, ok := f.Property(model.MustPointer("/on"))
				require.True(t, ok)
				assert.Equal(t, false, value)
			},
		},
		{
			name: "feature_desired_property_created",
			event: events.BuildFeatureDesiredPropertyCreated(
				id, "bulb", model.MustPointer("/on"), false, 2, projectionTime, nil,
			),
			verify: func(t *testing.T, next *model.Thing) {
				f, ok := next.Feature("bulb")
				require.True(t, ok)
				value, ok := f.DesiredProperty(model.MustPointer("/on"))
				require.True(t, ok)
				assert.Equal(t, false, value)
			},
		},
		{
			name:  "feature_deleted",
			event: events.BuildFeatureDeleted(id, "bulb", 2, projectionTime, nil),
			verify: func(t *testing.T, next *model.Thing) {
				_, ok := next.Feature("bulb")
				assert.False(t, ok)
			},
		},
		{
			name: "feature_definition_created",
			event: events.BuildFeatureDefinitionCreated(
				id, "bulb", []model.DefinitionID{"org.example:Bulb:1.0.0"}, 2, projectionTime, nil,
			),
			verify: func(t *testing.T, next *model.Thing) {
				f, ok := next.Feature("bulb")
				require.True(t, ok)
				def, ok := f.Definition()
				require.True(t, ok)
				assert.Equal(t, []model.DefinitionID{"org.example:Bulb:1.0.0"}, def)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := engine.Project(snapshot, tc.event)

			require.NoError(t, err)
			require.NotNil(t, next)
			assert.Equal(t, int64(2), next.Revision())
			tc.verify(t, next)
		})
	}
}

func Test_Project_PartialEventOnMissingFeatureIsRejected(t *testing.T) {
	snapshot := givenSnapshot(t)
	event := events.BuildFeaturePropertiesCreated(
		snapshot.ID(), "unknown", map[string]any{"on": true}, 2, projectionTime, nil,
	)

	_, err := engine.Project(snapshot, event)

	assert.ErrorIs(t, err, engine.ErrInvalidEventState)
}
