package shared

import (
	"cmp"
	"homefix/shared/constant"
	"reflect"
	"slices"
	"strings"
	"time"
)

// SortByField orders items by the struct field tagged db:"field". Unknown fields fall
// back to created_at. Used by stores that cannot sort server side.
func SortByField[T any](items []T, field, dir string) {
	if field == "" {
		field = constant.DefaultValueSortBy
	}

	desc := strings.EqualFold(dir, "DESC") || dir == ""

	slices.SortStableFunc(items, func(a, b T) int {
		c := compareValues(fieldByTag(reflect.ValueOf(a), field), fieldByTag(reflect.ValueOf(b), field))
		if desc {
			return -c
		}

		return c
	})
}

func fieldByTag(val reflect.Value, tag string) reflect.Value {
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	typ := val.Type()

	for index := range val.NumField() {
		structField := typ.Field(index)

		if structField.Anonymous && structField.Type.Kind() == reflect.Struct {
			if found := fieldByTag(val.Field(index), tag); found.IsValid() {
				return found
			}

			continue
		}

		if structField.Tag.Get("db") == tag {
			return val.Field(index)
		}
	}

	if tag != constant.DefaultValueSortBy {
		return fieldByTag(val, constant.DefaultValueSortBy)
	}

	return reflect.Value{}
}

func compareValues(a, b reflect.Value) int {
	if !a.IsValid() || !b.IsValid() {
		return 0
	}

	if ta, ok := a.Interface().(time.Time); ok {
		tb, _ := b.Interface().(time.Time)

		return ta.Compare(tb)
	}

	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
