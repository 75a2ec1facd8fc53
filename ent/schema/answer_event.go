package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one submitted answer.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.Int("challenge_index"),
		field.String("challenge_title").
			Default(""),
		field.String("learner_answer").
			Default("").
			Comment("Exactly as typed, before normalization"),
		field.Bool("correct"),
		field.Int("points_earned").
			Default(0).
			Comment("Zero for wrong answers and repeat solves"),
		field.Int("total_score").
			Default(0),
		field.Int("level").
			Default(1),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
