package shared

import (
	"context"
	"fmt"
	"homefix/shared/cache"
	"homefix/shared/constant"
	"homefix/shared/dto"
	"homefix/shared/timezone"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

// ApplyFields writes column values onto the db-tagged fields of the struct dst points to.
// A nil value resets the field to its zero value. Embedded structs are walked.
func ApplyFields(dst any, fields map[string]any) error {
	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("apply fields: expected pointer to struct, got %T", dst)
	}

	return applyFields(val.Elem(), fields)
}

func applyFields(val reflect.Value, fields map[string]any) error {
	typ := val.Type()

	for index := range val.NumField() {
		structField := typ.Field(index)
		field := val.Field(index)

		if structField.Anonymous && structField.Type.Kind() == reflect.Struct {
			if err := applyFields(field, fields); err != nil {
				return err
			}

			continue
		}

		name := structField.Tag.Get("db")

		value, ok := fields[name]
		if !ok || name == "" || name == "-" {
			continue
		}

		if value == nil {
			field.Set(reflect.Zero(field.Type()))

			continue
		}

		newValue := reflect.ValueOf(value)

		switch {
		case newValue.Type().AssignableTo(field.Type()):
			field.Set(newValue)
		case newValue.Type().ConvertibleTo(field.Type()):
			field.Set(newValue.Convert(field.Type()))
		default:
			return fmt.Errorf("apply fields: cannot assign %T to %s", value, name)
		}
	}

	return nil
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery keys a list cache entry by its paging and filter values.
// Filters must be plain value structs so the key stays stable between calls.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter any) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s:%+v", prefix, params.Page, params.Limit, params.SortBy, params.SortDir, filter)
}

// InvalidateCaches drops every key under prefix, logging instead of failing.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
	}
}
