package service

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/dinein/internal/enum"
)

// Actor is whoever performed a mutation: the restaurant owner or a staff
// member. The owner is not a staff row, so an owner actor never carries a
// staff id. The zero Actor is invalid.
type Actor struct {
	operator string
	staffID  uuid.UUID
	name     string
	source   string
}

func OwnerActor(name string) Actor {
	return Actor{operator: enum.OperatorOwner, name: name, source: enum.EventSourceAPI}
}

func StaffActor(id uuid.UUID, name string) Actor {
	return Actor{operator: enum.OperatorStaff, staffID: id, name: name, source: enum.EventSourceAPI}
}

// From returns a copy of a tagged with the surface that triggered the
// action. Unknown sources fall back to api.
func (a Actor) From(source string) Actor {
	if !enum.IsEventSource(source) {
		source = enum.EventSourceAPI
	}
	a.source = source
	return a
}

func (a Actor) IsOwner() bool { return a.operator == enum.OperatorOwner }

// StaffID reports the staff id, or false for the owner.
func (a Actor) StaffID() (uuid.UUID, bool) {
	if a.operator != enum.OperatorStaff {
		return uuid.Nil, false
	}
	return a.staffID, true
}

func (a Actor) Name() string         { return a.name }
func (a Actor) OperatorType() string { return a.operator }
func (a Actor) Source() string       { return a.source }

func (a Actor) valid() bool {
	switch a.operator {
	case enum.OperatorOwner:
		return true
	case enum.OperatorStaff:
		return a.staffID != uuid.Nil
	}
	return false
}

// staffRef is the value stored in last_modified_by / operator_staff_id:
// NULL for the owner.
func (a Actor) staffRef() pgtype.UUID {
	if id, ok := a.StaffID(); ok {
		return pgtype.UUID{Bytes: id, Valid: true}
	}
	return pgtype.UUID{}
}
