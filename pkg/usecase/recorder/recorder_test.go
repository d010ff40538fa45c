package recorder_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/service/ledger"
	"github.com/m-mizutani/provlog/pkg/usecase/recorder"
)

// memStore records each flush separately so tests can check which
// session the rows were filed under.
type memStore struct {
	writes   []flushed
	failNext bool
}

type flushed struct {
	session  *model.Session
	bindings []model.Binding
}

func (s *memStore) Write(ctx context.Context, session *model.Session, bindings []model.Binding) error {
	if s.failNext {
		s.failNext = false
		return goerr.Wrap(model.ErrStorage, "injected failure")
	}
	s.writes = append(s.writes, flushed{
		session:  session,
		bindings: append([]model.Binding{}, bindings...),
	})
	return nil
}

func (s *memStore) ReadAll(ctx context.Context) ([]model.Binding, error) {
	var all []model.Binding
	for _, w := range s.writes {
		all = append(all, w.bindings...)
	}
	return all, nil
}

func newRecorder() (*recorder.Recorder, *ledger.Ledger, *memStore) {
	store := &memStore{}
	l := ledger.New(store)
	return recorder.New(l), l, store
}

func session(id string) *model.Session {
	return model.NewSession(model.SessionID(id), 1700000000)
}

func weatherMatch() recorder.IntentMatch {
	return recorder.IntentMatch{
		User:       "alice",
		Assistant:  "mobile-assistant",
		Utterance:  []string{"hey assistant, weather forecast"},
		SkillID:    "weather-skill",
		IntentType: "weather-skill/WeatherIntent",
		IntentData: `{"city":"Vladivostok"}`,
		Timestamp:  time.Unix(1700000010, 0),
	}
}

func weatherInvocation() recorder.SkillInvocation {
	return recorder.SkillInvocation{
		SkillID:      "weather-skill",
		ServiceHost:  "api.weather.example",
		User:         "alice",
		UserIP:       "203.0.113.7",
		Location:     &model.Coordinate{Lat: 45.47885, Lng: 133.42825},
		RequestType:  "weather-query",
		RequestedAt:  time.Unix(1700000011, 0),
		ResponseType: "weather-report",
		RespondedAt:  time.Unix(1700000012, 0),
	}
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	rec, l, _ := newRecorder()
	s := session("S")

	uttID, err := rec.OnUtterance(ctx, s, []string{"hey assistant, weather forecast"})
	gt.NoError(t, err)
	gt.Equal(t, uttID, model.ID("utterance/S/1"))

	intentID, err := rec.OnIntentMatched(ctx, s, weatherMatch())
	gt.NoError(t, err)
	gt.Equal(t, intentID, model.ID("intent/S/1"))

	gt.NoError(t, rec.OnSkillInvoked(ctx, s, weatherInvocation()))

	all, err := l.CollectAll(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Length(3)

	im := all[0].(*model.IntentMatching)
	gt.Equal(t, im.UtteranceID, model.ID("utterance/S/1")) // same utterance, no second mint
	gt.Equal(t, im.IntentID, model.ID("intent/S/1"))

	dp := all[1].(*model.UserDatapoint)
	gt.Equal(t, dp.DatapointID, model.ID("users/alice/geolocation/1"))
	gt.Equal(t, dp.DatapointType, "geolocation")

	inv := all[2].(*model.SkillInvocation)
	gt.Equal(t, inv.IntentID, model.ID("intent/S/1"))
	gt.Equal(t, inv.UserDatapointID, model.ID("users/alice/geolocation/1"))
	gt.True(t, inv.RequestID != "" && inv.ResponseID != "" && inv.ActionID != "")
}

func TestUtteranceDedupWithinSession(t *testing.T) {
	ctx := context.Background()
	rec, _, _ := newRecorder()
	s := session("S")

	first, err := rec.OnUtterance(ctx, s, []string{"turn on the light"})
	gt.NoError(t, err)
	again, err := rec.OnUtterance(ctx, s, []string{"turn on the light"})
	gt.NoError(t, err)
	gt.Equal(t, again, first)

	other, err := rec.OnUtterance(ctx, s, []string{"turn off the light"})
	gt.NoError(t, err)
	gt.Equal(t, other, model.ID("utterance/S/2"))
}

func TestSessionSwitchFlushesPreviousSession(t *testing.T) {
	ctx := context.Background()
	rec, _, store := newRecorder()
	a := session("A")
	b := session("B")

	_, err := rec.OnIntentMatched(ctx, a, weatherMatch())
	gt.NoError(t, err)

	// First notification of B triggers the flush/reset protocol
	intentID, err := rec.OnIntentMatched(ctx, b, weatherMatch())
	gt.NoError(t, err)

	gt.A(t, store.writes).Length(1)
	gt.Equal(t, store.writes[0].session.ID, model.SessionID("A"))
	gt.A(t, store.writes[0].bindings).Length(1)

	// Counters were reset before B's first allocation
	gt.Equal(t, intentID, model.ID("intent/B/1"))
}

func TestFlushFailureKeepsPreviousSessionTracked(t *testing.T) {
	ctx := context.Background()
	rec, _, store := newRecorder()
	a := session("A")
	b := session("B")

	_, err := rec.OnIntentMatched(ctx, a, weatherMatch())
	gt.NoError(t, err)

	store.failNext = true
	_, err = rec.OnUtterance(ctx, b, []string{"what time is it"})
	gt.Error(t, err)
	gt.Equal(t, rec.Session(), a) // B was not adopted

	// Retry succeeds: A's rows land under A, then B is adopted
	_, err = rec.OnUtterance(ctx, b, []string{"what time is it"})
	gt.NoError(t, err)
	gt.Equal(t, rec.Session(), b)
	gt.A(t, store.writes).Length(1)
	gt.Equal(t, store.writes[0].session.ID, model.SessionID("A"))
}

// The geolocation and intent caches are process-scoped on purpose:
// only the utterance cache resets with the session.
func TestCacheAsymmetryAcrossSessions(t *testing.T) {
	ctx := context.Background()
	rec, l, _ := newRecorder()
	a := session("A")
	b := session("B")

	_, err := rec.OnIntentMatched(ctx, a, weatherMatch())
	gt.NoError(t, err)
	gt.NoError(t, rec.OnSkillInvoked(ctx, a, weatherInvocation()))

	// Same coordinates in the next session: no second user_datapoint,
	// and the invocation still correlates with A's intent.
	gt.NoError(t, rec.OnSkillInvoked(ctx, b, weatherInvocation()))

	all, err := l.CollectAll(ctx)
	gt.NoError(t, err)

	var datapoints int
	var lastInv *model.SkillInvocation
	for _, bind := range all {
		switch v := bind.(type) {
		case *model.UserDatapoint:
			datapoints++
		case *model.SkillInvocation:
			lastInv = v
		}
	}
	gt.Equal(t, datapoints, 1)
	gt.Equal(t, lastInv.IntentID, model.ID("intent/A/1"))
	gt.Equal(t, lastInv.UserDatapointID, model.ID("users/alice/geolocation/1"))
}

func TestShutdownFlushesBuffer(t *testing.T) {
	ctx := context.Background()
	rec, l, store := newRecorder()
	s := session("S")

	_, err := rec.OnIntentMatched(ctx, s, weatherMatch())
	gt.NoError(t, err)

	gt.NoError(t, rec.Shutdown(ctx))
	gt.A(t, store.writes).Length(1)
	gt.Equal(t, l.Size(), 0)

	// Nothing buffered, nothing tracked: shutdown is a no-op
	fresh, _, freshStore := newRecorder()
	gt.NoError(t, fresh.Shutdown(ctx))
	gt.A(t, freshStore.writes).Length(0)
}
