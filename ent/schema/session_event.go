package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records a session lifecycle transition with the progress at
// that moment.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("start, advance, complete or end"),
		field.String("catalog").
			Default(""),
		field.Int("challenge_index").
			Default(0),
		field.Int("challenge_count").
			Default(0),
		field.Int("total_score").
			Default(0),
		field.Int("unlocked_count").
			Default(0).
			Comment("Galaxies unlocked"),
		field.Int("level").
			Default(1),
		field.Bool("completed").
			Default(false),
		field.Int("duration_secs").
			Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
