package domain

import (
	"strings"

	"github.com/google/uuid"
)

type SubjectKind uint8

const (
	SubjectNone SubjectKind = iota
	SubjectRegistered
	SubjectManual
)

// Subject is who the appointment is for: a registered client or a walk-in
// known only by name. The zero value is "nobody" and never persisted.
type Subject struct {
	kind     SubjectKind
	clientID uuid.UUID
	name     string
}

func Registered(clientID uuid.UUID) Subject {
	return Subject{kind: SubjectRegistered, clientID: clientID}
}

func Manual(name string) Subject {
	return Subject{kind: SubjectManual, name: strings.TrimSpace(name)}
}

func (s Subject) Kind() SubjectKind { return s.kind }

func (s Subject) IsZero() bool { return s.kind == SubjectNone }

func (s Subject) ClientID() (uuid.UUID, bool) {
	return s.clientID, s.kind == SubjectRegistered
}

func (s Subject) ClientName() (string, bool) {
	return s.name, s.kind == SubjectManual
}

const (
	msgSubjectMissing = "either client_id (registered client) or client_name (walk-in booking) is required"
	msgSubjectBoth    = "provide only one of client_id (registered client) or client_name (walk-in booking), not both"
)

// NewSubject enforces that exactly one of clientID and clientName is given.
func NewSubject(clientID *uuid.UUID, clientName string) (Subject, error) {
	name := strings.TrimSpace(clientName)
	hasID := clientID != nil && *clientID != uuid.Nil
	hasName := name != ""

	switch {
	case hasID && hasName:
		return Subject{}, Invalid(RuleSubject, msgSubjectBoth)
	case hasID:
		return Registered(*clientID), nil
	case hasName:
		return Manual(name), nil
	default:
		return Subject{}, Invalid(RuleSubject, msgSubjectMissing)
	}
}

// MergeSubject applies a partial update to current. A field that is present
// with a null value clears that side; clearing the side currently in use
// without supplying the other one leaves the appointment without a subject
// and is rejected.
func MergeSubject(current Subject, clientID Nullable[uuid.UUID], clientName Nullable[string]) (Subject, bool, error) {
	setID := clientID.Present && clientID.Value != nil
	setName := clientName.Present && clientName.Value != nil

	if setID && setName {
		return current, false, Invalid(RuleSubject, msgSubjectBoth+"; send null to clear a field")
	}
	if setID {
		if *clientID.Value == uuid.Nil {
			return current, false, Invalid(RuleSubject, "client_id must be a valid id")
		}
		next := Registered(*clientID.Value)
		return next, next != current, nil
	}
	if setName {
		name := strings.TrimSpace(*clientName.Value)
		if name == "" {
			return current, false, Invalid(RuleSubject, "client_name must not be empty")
		}
		next := Manual(name)
		return next, next != current, nil
	}

	cleared := (clientID.Present && current.kind == SubjectRegistered) ||
		(clientName.Present && current.kind == SubjectManual)
	if cleared {
		return current, false, Invalid(RuleSubject, msgSubjectMissing+"; to switch, send the other field")
	}
	return current, false, nil
}
