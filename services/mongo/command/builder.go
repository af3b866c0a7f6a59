package command

import (
	"go.mongodb.org/mongo-driver/bson"
)

type UpdateBuilder struct {
	update bson.M
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{update: bson.M{}}
}

func (u *UpdateBuilder) op(name, key string, value interface{}) *UpdateBuilder {
	if u.update[name] == nil {
		u.update[name] = bson.M{}
	}
	u.update[name].(bson.M)[key] = value
	return u
}

func (u *UpdateBuilder) Set(key string, value interface{}) *UpdateBuilder {
	return u.op("$set", key, value)
}

// SetPtr sets key to *value when value is a non-nil pointer.
func SetPtr[T any](u *UpdateBuilder, key string, value *T) *UpdateBuilder {
	if value != nil {
		u.Set(key, *value)
	}
	return u
}

func (u *UpdateBuilder) SetOnInsert(key string, value interface{}) *UpdateBuilder {
	return u.op("$setOnInsert", key, value)
}

func (u *UpdateBuilder) Inc(key string, value interface{}) *UpdateBuilder {
	return u.op("$inc", key, value)
}

func (u *UpdateBuilder) Push(key string, value interface{}) *UpdateBuilder {
	return u.op("$push", key, value)
}

func (u *UpdateBuilder) AddToSet(key string, value interface{}) *UpdateBuilder {
	return u.op("$addToSet", key, value)
}

func (u *UpdateBuilder) Pull(key string, value interface{}) *UpdateBuilder {
	return u.op("$pull", key, value)
}

func (u *UpdateBuilder) Unset(key string) *UpdateBuilder {
	return u.op("$unset", key, "")
}

func (u *UpdateBuilder) Build() bson.M {
	return u.update
}
