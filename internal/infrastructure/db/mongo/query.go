package mongo

import (
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/pkg/query"
)

// listFilter translates the search and conditions of p into a filter over
// the fields schema exposes. base is merged in and always wins.
func listFilter(schema query.Schema, p query.Params, base bson.M) (bson.M, error) {
	filter := bson.M{}
	for _, c := range p.Conditions {
		f, ok := schema.Lookup(c.Field)
		if !ok {
			continue
		}
		expr, err := conditionExpr(f, c)
		if err != nil {
			return nil, err
		}
		if existing, ok := filter[f.Path].(bson.M); ok {
			if ops, ok := expr.(bson.M); ok {
				for k, v := range ops {
					existing[k] = v
				}
				continue
			}
		}
		filter[f.Path] = expr
	}

	if p.Search != "" && len(schema.Search) > 0 {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(p.Search), Options: "i"}
		or := make(bson.A, 0, len(schema.Search))
		for _, path := range schema.Search {
			or = append(or, bson.M{path: pattern})
		}
		filter["$or"] = or
	}

	for k, v := range base {
		filter[k] = v
	}
	return filter, nil
}

func conditionExpr(f query.Field, c query.Condition) (any, error) {
	switch c.Op {
	case query.OpExists:
		b, err := strconv.ParseBool(c.Value)
		if err != nil {
			return nil, invalidFilter(c)
		}
		return bson.M{"$exists": b}, nil
	case query.OpIn:
		values := c.Values()
		in := make(bson.A, 0, len(values))
		for _, raw := range values {
			v, err := coerce(f.Kind, raw)
			if err != nil {
				return nil, invalidFilter(c)
			}
			in = append(in, v)
		}
		return bson.M{"$in": in}, nil
	}

	v, err := coerce(f.Kind, c.Value)
	if err != nil {
		return nil, invalidFilter(c)
	}
	if c.Op == query.OpEq {
		return v, nil
	}
	return bson.M{"$" + string(c.Op): v}, nil
}

func coerce(kind query.Kind, raw string) (any, error) {
	switch kind {
	case query.Int:
		return strconv.ParseInt(raw, 10, 64)
	case query.Float:
		return strconv.ParseFloat(raw, 64)
	case query.Bool:
		return strconv.ParseBool(raw)
	case query.Time:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), nil
		}
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case query.ObjectID:
		return primitive.ObjectIDFromHex(raw)
	default:
		return raw, nil
	}
}

func invalidFilter(c query.Condition) error {
	return domain.Validationf("invalid value %q for filter %s", c.Value, c.Field)
}

// listSort resolves p's sort keys against schema, falling back to the
// schema default. _id breaks ties so pages are stable.
func listSort(schema query.Schema, p query.Params) bson.D {
	keys := make([]query.SortKey, 0, len(p.Sort))
	for _, k := range p.Sort {
		if _, ok := schema.Lookup(k.Field); ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = schema.DefaultSort
	}

	sort := make(bson.D, 0, len(keys)+1)
	seenID := false
	for _, k := range keys {
		path := "_id"
		if f, ok := schema.Lookup(k.Field); ok {
			path = f.Path
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		seenID = seenID || path == "_id"
		sort = append(sort, bson.E{Key: path, Value: dir})
	}
	if !seenID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

func findOptions(schema query.Schema, p query.Params) *options.FindOptions {
	return options.Find().
		SetSort(listSort(schema, p)).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Size))
}

// timestampFields are exposed by every resource schema.
func timestampFields(fields map[string]query.Field) map[string]query.Field {
	fields["createdAt"] = query.Field{Path: "created_at", Kind: query.Time}
	fields["updatedAt"] = query.Field{Path: "updated_at", Kind: query.Time}
	return fields
}

var newestFirst = []query.SortKey{{Field: "createdAt", Desc: true}}
