// Package schema declares the galacticode event entities. The store creates
// the matching tables from internal/store/schema.go; the two are kept in step
// by the tests in this package.
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
)

// EventMixin adds the global sequence and timestamp every event row carries.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Shared counter ordering events across tables"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}
