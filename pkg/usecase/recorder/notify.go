package recorder

import (
	"context"
	"time"

	"github.com/m-mizutani/provlog/pkg/model"
)

// IntentMatch is the notification payload for a matched intent.
type IntentMatch struct {
	User       string
	Assistant  string
	Utterance  []string // raw utterance alternatives, best hypothesis first
	SkillID    string
	IntentType string
	IntentData string
	Timestamp  time.Time
}

// SkillInvocation is the notification payload for a skill calling an
// external service. Location is optional; Request/Response payloads
// may be empty.
type SkillInvocation struct {
	SkillID     string
	ServiceHost string
	User        string
	UserIP      string
	Location    *model.Coordinate

	RequestType    string
	RequestPayload string
	RequestedAt    time.Time

	ResponseType    string
	ResponsePayload string
	RespondedAt     time.Time
}

// OnUtterance records that an utterance was heard and returns its
// identifier. The same tuple of alternatives resolves to the same
// identifier within one session. No binding is appended; the
// utterance is documented by the intent-matching binding that follows.
func (r *Recorder) OnUtterance(ctx context.Context, s *model.Session, alternatives []string) (model.ID, error) {
	if err := r.track(ctx, s); err != nil {
		return "", err
	}
	return r.resolveUtterance(alternatives), nil
}

// OnIntentMatched records which utterance triggered which intent. The
// minted intent identifier is remembered per skill so a later skill
// invocation can be correlated with it.
func (r *Recorder) OnIntentMatched(ctx context.Context, s *model.Session, in IntentMatch) (model.ID, error) {
	if err := r.track(ctx, s); err != nil {
		return "", err
	}

	utteranceID := r.resolveUtterance(in.Utterance)

	intentID := r.alloc.Allocate(model.KindIntent, string(r.session.ID))
	r.registry.Mint(intentID)
	r.intents.Put(in.SkillID, intentID)

	var text string
	if len(in.Utterance) > 0 {
		text = in.Utterance[0]
	}

	b := &model.IntentMatching{
		User:          in.User,
		Assistant:     in.Assistant,
		UtteranceID:   utteranceID,
		UtteranceText: text,
		IntentID:      intentID,
		IntentType:    in.IntentType,
		SkillID:       in.SkillID,
		IntentData:    in.IntentData,
		Timestamp:     in.Timestamp.Unix(),
	}
	if err := r.append(b); err != nil {
		return "", err
	}
	return intentID, nil
}

// OnSkillInvoked records a skill invocation. A geolocation datapoint
// is minted and documented on first sight of the coordinate pair; the
// intent identifier is taken from the per-skill cache and left empty
// when no intent was ever resolved for the skill.
func (r *Recorder) OnSkillInvoked(ctx context.Context, s *model.Session, in SkillInvocation) error {
	if err := r.track(ctx, s); err != nil {
		return err
	}

	var datapointID model.ID
	if in.Location != nil {
		id, minted := r.geo.ResolveOrMint(in.User, *in.Location)
		if minted {
			r.registry.Mint(id)
			dp := &model.UserDatapoint{
				User:          in.User,
				DatapointID:   id,
				DatapointType: string(model.KindGeolocation),
				Value:         in.Location.String(),
			}
			if err := r.append(dp); err != nil {
				return err
			}
		}
		datapointID = id
	}

	intentID, _ := r.intents.Resolve(in.SkillID)

	requestID := model.NewOpaqueID()
	responseID := model.NewOpaqueID()
	actionID := model.NewOpaqueID()
	r.registry.Mint(requestID)
	r.registry.Mint(responseID)
	r.registry.Mint(actionID)

	b := &model.SkillInvocation{
		SkillID:           in.SkillID,
		ServiceHost:       in.ServiceHost,
		IntentID:          intentID,
		UserIP:            in.UserIP,
		UserDatapointID:   datapointID,
		RequestID:         requestID,
		RequestType:       in.RequestType,
		RequestPayload:    in.RequestPayload,
		RequestTimestamp:  in.RequestedAt.Unix(),
		ResponseID:        responseID,
		ResponseType:      in.ResponseType,
		ResponsePayload:   in.ResponsePayload,
		ResponseTimestamp: in.RespondedAt.Unix(),
		ActionID:          actionID,
	}
	return r.append(b)
}
