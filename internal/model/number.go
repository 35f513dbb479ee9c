package model

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm/schema"
)

// NumberSerializerName is the gorm serializer for money and quantity columns
const NumberSerializerName = "number"

func init() {
	schema.RegisterSerializer(NumberSerializerName, NumberSerializer{})
}

// NumberSerializer reads decimal and integer columns leniently. A stored
// value that does not parse loads as zero and is logged, so one bad row
// can not fail a whole collection load.
type NumberSerializer struct{}

func (NumberSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	d, ok := ParseNumber(dbValue)
	if !ok {
		zap.L().Warn("unreadable number stored, loading as 0",
			zap.String("table", field.Schema.Table),
			zap.String("column", field.DBName),
			zap.Any("value", dbValue),
		)
	}

	fieldValue := reflect.New(field.FieldType).Elem()
	switch fieldValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fieldValue.SetInt(d.IntPart())
	default:
		if _, isDecimal := fieldValue.Interface().(decimal.Decimal); !isDecimal {
			return fmt.Errorf("number serializer: unsupported field type %s", field.FieldType)
		}
		fieldValue.Set(reflect.ValueOf(d))
	}
	field.ReflectValueOf(ctx, dst).Set(fieldValue)
	return nil
}

func (NumberSerializer) Value(_ context.Context, field *schema.Field, _ reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case decimal.Decimal:
		return v.String(), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	default:
		return nil, fmt.Errorf("number serializer: unsupported value %T for %s", fieldValue, field.Name)
	}
}

// ParseNumber converts a raw driver value to a decimal. NULL is zero; any
// value that is not a number yields zero and false.
func ParseNumber(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case []byte:
		return parseNumberText(string(n))
	case string:
		return parseNumberText(n)
	default:
		return parseNumberText(fmt.Sprint(n))
	}
}

func parseNumberText(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
