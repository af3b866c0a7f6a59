package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

type Builder struct {
	filter bson.M
}

func NewBuilder() *Builder {
	return &Builder{filter: bson.M{}}
}

func (b *Builder) Where(key string, value interface{}) *Builder {
	b.filter[key] = value
	return b
}

// WhereIf adds the condition only when ok is true.
func (b *Builder) WhereIf(ok bool, key string, value interface{}) *Builder {
	if ok {
		b.filter[key] = value
	}
	return b
}

func (b *Builder) WhereRange(key string, from, to interface{}) *Builder {
	b.filter[key] = bson.M{"$gte": from, "$lte": to}
	return b
}

// Search matches text case-insensitively as a literal in any of keys.
func (b *Builder) Search(text string, keys ...string) *Builder {
	if text == "" || len(keys) == 0 {
		return b
	}
	pattern := regexp.QuoteMeta(text)
	or := make(bson.A, 0, len(keys))
	for _, k := range keys {
		or = append(or, bson.M{k: bson.M{"$regex": pattern, "$options": "i"}})
	}
	b.filter["$or"] = or
	return b
}

func (b *Builder) Build() bson.M {
	return b.filter
}
