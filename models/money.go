package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/x/bsonx/bsoncore"
)

// Money is a decimal amount. It marshals to JSON the way shopspring/decimal
// does and is stored in Mongo as a string, since the driver has no codec for
// decimal.Decimal.
type Money struct {
	decimal.Decimal
}

func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %v", s, err)
	}
	return Money{Decimal: d}, nil
}

func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) MarshalBSONValue() (byte, []byte, error) {
	return byte(bson.TypeString), bsoncore.AppendString(nil, m.Decimal.String()), nil
}

func (m *Money) UnmarshalBSONValue(t byte, data []byte) error {
	switch bson.Type(t) {
	case bson.TypeString:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("error reading money string")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("error parsing money %q: %v", s, err)
		}
		m.Decimal = d
		return nil
	case bson.TypeDouble:
		f, _, ok := bsoncore.ReadDouble(data)
		if !ok {
			return fmt.Errorf("error reading money double")
		}
		m.Decimal = decimal.NewFromFloat(f)
		return nil
	case bson.TypeInt32:
		i, _, ok := bsoncore.ReadInt32(data)
		if !ok {
			return fmt.Errorf("error reading money int32")
		}
		m.Decimal = decimal.NewFromInt32(i)
		return nil
	case bson.TypeInt64:
		i, _, ok := bsoncore.ReadInt64(data)
		if !ok {
			return fmt.Errorf("error reading money int64")
		}
		m.Decimal = decimal.NewFromInt(i)
		return nil
	default:
		return fmt.Errorf("cannot decode money from BSON type %v", bson.Type(t))
	}
}
