package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/engine"
	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/things/strategies"
	"github.com/twinforge/thing-engine-go/wot"
)

func newEngineWithStore(t *testing.T, options ...engine.Option) (*engine.Engine, *engine.InMemoryStore) {
	t.Helper()

	store := engine.NewInMemoryStore()
	eng, err := engine.NewEngine(store, options...)
	require.NoError(t, err)

	return eng, store
}

func givenCreatedThing(t *testing.T, eng *engine.Engine, id model.ThingID) {
	t.Helper()

	cmd := commands.BuildCreateThing(
		model.NewThing(id).SetAttributes(map[string]any{"location": "lab"}),
		commands.BuildHeaders(),
	)
	resp, err := eng.Execute(context.Background(), cmd, nil)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Status)
}

func Test_Engine_CreateModifyRetrieve_RevisionsAdvanceGapFree(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")

	// act - create, modify, retrieve
	givenCreatedThing(t, eng, id)

	modify := commands.BuildModifyThing(
		model.NewThing(id).SetAttributes(map[string]any{"location": "cellar"}),
		commands.BuildHeaders(),
	)
	modifyResp, err := eng.Execute(context.Background(), modify, nil)
	require.NoError(t, err)

	retrieve := commands.BuildRetrieveThing(id, commands.BuildHeaders())
	retrieveResp, err := eng.Execute(context.Background(), retrieve, nil)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 200, modifyResp.Status)
	assert.Equal(t, "2", modifyResp.Headers[commands.HeaderEntityRevision])

	assert.Equal(t, 200, retrieveResp.Status)
	assert.Equal(t, "2", retrieveResp.Headers[commands.HeaderEntityRevision])

	journal := store.Journal(id)
	require.Len(t, journal, 2, "exactly one event per accepted mutation")
	assert.Equal(t, events.ThingCreatedType, journal[0].EventType)
	assert.Equal(t, events.ThingModifiedType, journal[1].EventType)
}

func Test_Engine_CreateConflict_LeavesJournalUntouched(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	// act
	duplicate := commands.BuildCreateThing(model.NewThing(id), commands.BuildHeaders())
	resp, err := eng.Execute(context.Background(), duplicate, nil)

	// assert
	require.Error(t, err)
	var conflict *strategies.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 409, resp.Status)
	assert.Len(t, store.Journal(id), 1)
}

func Test_Engine_QueriesAppendNothing(t *testing.T) {
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	_, err := eng.Execute(context.Background(), commands.BuildRetrieveThing(id, commands.BuildHeaders()), nil)

	require.NoError(t, err)
	assert.Len(t, store.Journal(id), 1, "queries never produce events")
}

func Test_Engine_DeletedThingIsAbsent(t *testing.T) {
	// arrange
	eng, _ := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	// act
	deleteResp, err := eng.Execute(context.Background(), commands.BuildDeleteThing(id, commands.BuildHeaders()), nil)
	require.NoError(t, err)
	require.Equal(t, 204, deleteResp.Status)

	retrieveResp, err := eng.Execute(context.Background(), commands.BuildRetrieveThing(id, commands.BuildHeaders()), nil)

	// assert
	require.Error(t, err)
	var notFound *strategies.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 404, retrieveResp.Status)
}

func Test_Engine_RecreationAfterDeletionContinuesTheRevisionLine(t *testing.T) {
	// arrange - create (revision 1) and delete (revision 2)
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	_, err := eng.Execute(context.Background(), commands.BuildDeleteThing(id, commands.BuildHeaders()), nil)
	require.NoError(t, err)

	// act
	recreate := commands.BuildCreateThing(model.NewThing(id), commands.BuildHeaders())
	resp, err := eng.Execute(context.Background(), recreate, nil)

	// assert - the recreation appends to the same journal, no revision is spent twice
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, "3", resp.Headers[commands.HeaderEntityRevision])

	journal := store.Journal(id)
	require.Len(t, journal, 3)
	assert.Equal(t, events.ThingCreatedType, journal[2].EventType)
	assert.Contains(t, string(journal[2].PayloadJSON), `"revision":3`)
}

func Test_Engine_MutationOfAbsentThingIsRejectedByTheApplicabilityGuard(t *testing.T) {
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")

	modify := commands.BuildModifyThing(model.NewThing(id), commands.BuildHeaders())
	resp, err := eng.Execute(context.Background(), modify, nil)

	require.Error(t, err)
	var notFound *strategies.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "things:thing.notfound", notFound.ErrorCode())
	assert.Equal(t, 404, resp.Status)
	assert.Empty(t, store.Journal(id))
}

func Test_Engine_IfMatchMismatchRejectsBeforeApply(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	// act - the supplied tag matches no current state
	modify := commands.BuildModifyThing(
		model.NewThing(id),
		commands.BuildHeaders().WithIfMatch(`"hash:0011223344556677"`),
	)
	resp, err := eng.Execute(context.Background(), modify, nil)

	// assert
	require.Error(t, err)
	var conflict *strategies.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 412, resp.Status)
	assert.Equal(t, "if-match", conflict.Header)
	assert.Len(t, store.Journal(id), 1, "a failed precondition never reaches the journal")
}

func Test_Engine_IfMatchStarAcceptsAnyExistingState(t *testing.T) {
	eng, _ := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	modify := commands.BuildModifyThing(model.NewThing(id), commands.BuildHeaders().WithIfMatch("*"))
	resp, err := eng.Execute(context.Background(), modify, nil)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.NotEmpty(t, resp.Headers[commands.HeaderETag], "conditional commands answer with an entity tag")
}

func Test_Engine_IfNoneMatchStar(t *testing.T) {
	// arrange
	eng, _ := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")

	// act - if-none-match "*" on an absent thing accepts
	create := commands.BuildCreateThing(model.NewThing(id), commands.BuildHeaders().WithIfNoneMatch("*"))
	resp, err := eng.Execute(context.Background(), create, nil)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Status)

	// act - on the now existing thing it rejects
	modify := commands.BuildModifyThing(model.NewThing(id), commands.BuildHeaders().WithIfNoneMatch("*"))
	resp, err = eng.Execute(context.Background(), modify, nil)

	// assert
	require.Error(t, err)
	var conflict *strategies.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "if-none-match", conflict.Header)
	assert.Equal(t, 412, resp.Status)
}

func Test_Engine_FailedValidationStageAppendsNothing(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t, engine.WithValidator(rejectingValidator{}, time.Second))
	id := model.MustThingID("org.example:lamp-1")

	// act
	create := commands.BuildCreateThing(model.NewThing(id), commands.BuildHeaders())
	resp, err := eng.Execute(context.Background(), create, nil)

	// assert
	require.Error(t, err)
	var failed *wot.ValidationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 400, resp.Status)
	assert.Empty(t, store.Journal(id))
}

func Test_Engine_SizeLimitRejectsOversizedMutations(t *testing.T) {
	eng, store := newEngineWithStore(t, engine.WithSizeLimit(32, 1.0))
	id := model.MustThingID("org.example:lamp-1")

	create := commands.BuildCreateThing(
		model.NewThing(id).SetAttributes(map[string]any{"payload": "definitely larger than the configured budget"}),
		commands.BuildHeaders(),
	)
	resp, err := eng.Execute(context.Background(), create, nil)

	require.Error(t, err)
	var tooLarge *strategies.PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 413, resp.Status)
	assert.Empty(t, store.Journal(id))
}

func Test_Engine_UnsupportedCommandType(t *testing.T) {
	eng, _ := newEngineWithStore(t)

	resp, err := eng.Execute(context.Background(), unsupportedCommand{}, nil)

	require.Error(t, err)
	var unsupported *strategies.UnsupportedCommandError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 400, resp.Status)
}

func Test_Engine_ConcurrentMutationsOfOneThingAreSerialized(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")
	givenCreatedThing(t, eng, id)

	// act - hammer the same thing from many goroutines
	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd := commands.BuildModifyAttribute(
				id, model.MustPointer("/location"), fmt.Sprintf("room-%d", i), commands.BuildHeaders(),
			)
			_, errs[i] = eng.Execute(context.Background(), cmd, nil)
		}()
	}
	wg.Wait()

	// assert - every mutation succeeded and the journal has no gaps
	for _, err := range errs {
		assert.NoError(t, err)
	}
	journal := store.Journal(id)
	require.Len(t, journal, writers+1)
	for i, stored := range journal {
		assert.Contains(t, string(stored.PayloadJSON), fmt.Sprintf(`"revision":%d`, i+1))
	}
}

func Test_Engine_MetadataIsPropagatedIntoEvents(t *testing.T) {
	// arrange
	eng, store := newEngineWithStore(t)
	id := model.MustThingID("org.example:lamp-1")

	// act
	create := commands.BuildCreateThing(model.NewThing(id), commands.BuildHeaders())
	_, err := eng.Execute(context.Background(), create, events.Metadata{"origin": "device-gateway"})
	require.NoError(t, err)

	// assert
	journal := store.Journal(id)
	require.Len(t, journal, 1)
	assert.Contains(t, string(journal[0].PayloadJSON), `"origin":"device-gateway"`)
}

type unsupportedCommand struct{}

func (unsupportedCommand) CommandType() string    { return "things.commands:unknown" }
func (unsupportedCommand) ThingID() model.ThingID { return model.MustThingID("org.example:lamp-1") }
func (unsupportedCommand) CommandHeaders() commands.Headers {
	return commands.BuildHeadersWithCorrelationID("corr-unsupported")
}

// rejectingValidator fails every whole-thing validation, everything else passes.
type rejectingValidator struct{}

func (rejectingValidator) ValidateThing(
	_ context.Context, _ model.DefinitionID, _ map[string]any, correlationID string,
) error {
	return &wot.ValidationFailedError{Message: "thing does not match its model", Path: "/", CorrelationID: correlationID}
}

func (rejectingValidator) ValidateAttributes(
	context.Context, model.DefinitionID, model.Pointer, any, string,
) error {
	return nil
}

func (rejectingValidator) ValidateFeature(context.Context, model.DefinitionID, model.Feature, string) error {
	return nil
}

func (rejectingValidator) ValidateFeatureProperty(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, any, bool, string,
) error {
	return nil
}

func (rejectingValidator) ValidateScopedDeletion(
	context.Context, model.DefinitionID, []model.DefinitionID, string, model.Pointer, string,
) error {
	return nil
}
