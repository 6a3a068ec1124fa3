package dynamodb

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Expression collects placeholder names and values while update and condition
// expressions are assembled. Attribute names are always aliased so reserved words
// such as status can be used.
type Expression struct {
	Names  map[string]string
	Values map[string]types.AttributeValue

	aliases map[string]string
}

func NewExpression() *Expression {
	return &Expression{
		Names:   map[string]string{},
		Values:  map[string]types.AttributeValue{},
		aliases: map[string]string{},
	}
}

func (e *Expression) Name(attribute string) string {
	if alias, ok := e.aliases[attribute]; ok {
		return alias
	}

	alias := fmt.Sprintf("#n%d", len(e.aliases))
	e.aliases[attribute] = alias
	e.Names[alias] = attribute

	return alias
}

func (e *Expression) Value(value any) (string, error) {
	av, err := Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal expression value: %w", err)
	}

	placeholder := fmt.Sprintf(":v%d", len(e.Values))
	e.Values[placeholder] = av

	return placeholder, nil
}

// Set renders a SET clause for fields, in a stable column order.
func (e *Expression) Set(fields map[string]any) (string, error) {
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}

	slices.Sort(columns)

	assignments := make([]string, 0, len(columns))

	for _, column := range columns {
		placeholder, err := e.Value(fields[column])
		if err != nil {
			return "", err
		}

		assignments = append(assignments, fmt.Sprintf("%s = %s", e.Name(column), placeholder))
	}

	return "SET " + strings.Join(assignments, ", "), nil
}

func (e *Expression) Equal(attribute string, value any) (string, error) {
	placeholder, err := e.Value(value)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s = %s", e.Name(attribute), placeholder), nil
}

func (e *Expression) In(attribute string, values []string) (string, error) {
	placeholders := make([]string, 0, len(values))

	for _, value := range values {
		placeholder, err := e.Value(value)
		if err != nil {
			return "", err
		}

		placeholders = append(placeholders, placeholder)
	}

	return fmt.Sprintf("%s IN (%s)", e.Name(attribute), strings.Join(placeholders, ", ")), nil
}

func (e *Expression) Exists(attribute string) string {
	return fmt.Sprintf("attribute_exists(%s)", e.Name(attribute))
}

func (e *Expression) NotExists(attribute string) string {
	return fmt.Sprintf("attribute_not_exists(%s)", e.Name(attribute))
}

// NameMap returns nil when no names were used, as the API rejects empty maps.
func (e *Expression) NameMap() map[string]string {
	if len(e.Names) == 0 {
		return nil
	}

	return e.Names
}

func (e *Expression) ValueMap() map[string]types.AttributeValue {
	if len(e.Values) == 0 {
		return nil
	}

	return e.Values
}

func And(conditions ...string) string {
	parts := make([]string, 0, len(conditions))

	for _, condition := range conditions {
		if condition != "" {
			parts = append(parts, "("+condition+")")
		}
	}

	return strings.Join(parts, " AND ")
}
