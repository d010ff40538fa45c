package model

import "strconv"

type BindingKind string

const (
	BindingIntentMatching  BindingKind = "intent_matching"
	BindingUserDatapoint   BindingKind = "user_datapoint"
	BindingSkillInvocation BindingKind = "skill_invocation"
)

// Binding is one immutable provenance fact. Bindings are appended
// exactly once and never mutated or deleted afterwards.
type Binding interface {
	Kind() BindingKind

	// Record returns the CSV row for the binding. The first column is
	// the kind discriminator; optional fields serialize as empty
	// strings.
	Record() []string

	// Refs lists every identifier the binding references. All of them
	// must have been minted before the binding is appended.
	Refs() []ID
}

// IntentMatching records which utterance triggered which intent of
// which skill.
type IntentMatching struct {
	User          string
	Assistant     string
	UtteranceID   ID
	UtteranceText string
	IntentID      ID
	IntentType    string // "<skill>/<type>"
	SkillID       string
	IntentData    string // opaque serialized payload
	Timestamp     int64  // seconds since epoch
}

func (b *IntentMatching) Kind() BindingKind { return BindingIntentMatching }

func (b *IntentMatching) Record() []string {
	return []string{
		string(BindingIntentMatching),
		b.User,
		b.Assistant,
		string(b.UtteranceID),
		b.UtteranceText,
		string(b.IntentID),
		b.IntentType,
		b.SkillID,
		b.IntentData,
		strconv.FormatInt(b.Timestamp, 10),
	}
}

func (b *IntentMatching) Refs() []ID {
	return []ID{b.UtteranceID, b.IntentID}
}

// UserDatapoint documents a newly minted user data attribute, e.g. a
// geolocation coordinate pair.
type UserDatapoint struct {
	User          string
	DatapointID   ID
	DatapointType string
	Value         string
}

func (b *UserDatapoint) Kind() BindingKind { return BindingUserDatapoint }

func (b *UserDatapoint) Record() []string {
	return []string{
		string(BindingUserDatapoint),
		b.User,
		string(b.DatapointID),
		b.DatapointType,
		b.Value,
	}
}

func (b *UserDatapoint) Refs() []ID {
	return []ID{b.DatapointID}
}

// SkillInvocation records a skill calling out to an external service.
// IntentID, UserIP, UserDatapointID and the payload columns are
// optional and serialize as empty when absent.
type SkillInvocation struct {
	SkillID           string
	ServiceHost       string
	IntentID          ID
	UserIP            string
	UserDatapointID   ID
	RequestID         ID
	RequestType       string
	RequestPayload    string
	RequestTimestamp  int64
	ResponseID        ID
	ResponseType      string
	ResponsePayload   string
	ResponseTimestamp int64
	ActionID          ID
}

func (b *SkillInvocation) Kind() BindingKind { return BindingSkillInvocation }

func (b *SkillInvocation) Record() []string {
	return []string{
		string(BindingSkillInvocation),
		b.SkillID,
		b.ServiceHost,
		string(b.IntentID),
		b.UserIP,
		string(b.UserDatapointID),
		string(b.RequestID),
		b.RequestType,
		b.RequestPayload,
		strconv.FormatInt(b.RequestTimestamp, 10),
		string(b.ResponseID),
		b.ResponseType,
		b.ResponsePayload,
		strconv.FormatInt(b.ResponseTimestamp, 10),
		string(b.ActionID),
	}
}

func (b *SkillInvocation) Refs() []ID {
	refs := []ID{b.RequestID, b.ResponseID, b.ActionID}
	if b.IntentID != "" {
		refs = append(refs, b.IntentID)
	}
	if b.UserDatapointID != "" {
		refs = append(refs, b.UserDatapointID)
	}
	return refs
}
