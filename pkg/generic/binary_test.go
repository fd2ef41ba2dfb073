package generic

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderSchema = `{
	"type": "record",
	"name": "Order",
	"namespace": "com.example",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "placed", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "lines", "type": {"type": "array", "items": "string"}},
		{"name": "totals", "type": {"type": "map", "values": "long"}},
		{"name": "color", "type": {"type": "enum", "name": "Color", "symbols": ["RED", "GREEN"]}},
		{"name": "shipping", "type": {
			"type": "record", "name": "Address",
			"fields": [
				{"name": "street", "type": "string"},
				{"name": "zip", "type": "int"}
			]
		}}
	]
}`

const parcelSchema = `{
	"type": "record",
	"name": "Parcel",
	"namespace": "com.example",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "to", "type": ["null", {
			"type": "record", "name": "Address",
			"fields": [
				{"name": "street", "type": "string"},
				{"name": "zip", "type": "int"}
			]
		}]},
		{"name": "from", "type": ["null", "Address"]},
		{"name": "color", "type": ["null", {"type": "enum", "name": "Color", "symbols": ["RED", "GREEN"]}]},
		{"name": "labels", "type": ["null", {"type": "map", "values": "string"}]},
		{"name": "weights", "type": ["null", {"type": "array", "items": "long"}]},
		{"name": "delivered", "type": ["null", {"type": "long", "logicalType": "timestamp-millis"}]},
		{"name": "note", "type": ["null", "string"]}
	]
}`

type parcel struct {
	ID        string
	To        *address
	From      *address
	Color     *color
	Labels    *map[string]string
	Weights   *[]int64
	Delivered *time.Time
	Note      *string
}

var (
	parcelFieldNames = []string{"id", "to", "from", "color", "labels", "weights", "delivered", "note"}

	optionalAddressDecoder = OptionalDecoder(RecordDecoder(decodeAddress))
	optionalAddressEncoder = OptionalEncoder(RecordEncoder(encodeAddress))
)

func decodeParcel(record *Record) (parcel, error) {
	var (
		out parcel
		err error
	)
	if out.ID, err = DecodeString(record.Get("id")); err != nil {
		return parcel{}, err
	}
	if out.To, err = optionalAddressDecoder(record.Get("to")); err != nil {
		return parcel{}, err
	}
	if out.From, err = optionalAddressDecoder(record.Get("from")); err != nil {
		return parcel{}, err
	}
	if out.Color, err = OptionalDecoder(decodeColor)(record.Get("color")); err != nil {
		return parcel{}, err
	}
	if out.Labels, err = OptionalDecoder(MapDecoder(DecodeString))(record.Get("labels")); err != nil {
		return parcel{}, err
	}
	if out.Weights, err = OptionalDecoder(ListDecoder(DecodeLong))(record.Get("weights")); err != nil {
		return parcel{}, err
	}
	if out.Delivered, err = OptionalDecoder(DecodeTimestampMillis)(record.Get("delivered")); err != nil {
		return parcel{}, err
	}
	if out.Note, err = OptionalDecoder(DecodeString)(record.Get("note")); err != nil {
		return parcel{}, err
	}
	return out, nil
}

func encodeParcel(schema avro.Schema, in parcel) (*Record, error) {
	record, err := NewRecord(schema)
	if err != nil {
		return nil, err
	}
	encoders := map[string]func() (any, error){
		"id":        func() (any, error) { return EncodeString(record.FieldSchema("id"), in.ID) },
		"to":        func() (any, error) { return optionalAddressEncoder(record.FieldSchema("to"), in.To) },
		"from":      func() (any, error) { return optionalAddressEncoder(record.FieldSchema("from"), in.From) },
		"color":     func() (any, error) { return OptionalEncoder(encodeColor)(record.FieldSchema("color"), in.Color) },
		"labels":    func() (any, error) { return OptionalEncoder(MapEncoder(EncodeString))(record.FieldSchema("labels"), in.Labels) },
		"weights":   func() (any, error) { return OptionalEncoder(ListEncoder(EncodeLong))(record.FieldSchema("weights"), in.Weights) },
		"delivered": func() (any, error) { return OptionalEncoder(EncodeTimestampMillis)(record.FieldSchema("delivered"), in.Delivered) },
		"note":      func() (any, error) { return OptionalEncoder(EncodeString)(record.FieldSchema("note"), in.Note) },
	}
	for _, name := range parcelFieldNames {
		v, err := encoders[name]()
		if err != nil {
			return nil, NewFieldError("com.example.Parcel", name, err)
		}
		record.Put(name, v)
	}
	return record, nil
}

func TestMarshalUnmarshal_NullableFields(t *testing.T) {
	green := color("GREEN")
	delivered := time.UnixMilli(1700000000123).UTC()

	tests := []struct {
		name string
		in   parcel
	}{
		{name: "all absent", in: parcel{ID: "p-0"}},
		{name: "record present", in: parcel{ID: "p-1", To: &address{Street: "Main", Zip: 1}}},
		{name: "referenced record present", in: parcel{ID: "p-2", From: &address{Street: "Dock", Zip: 2}}},
		{name: "enum present", in: parcel{ID: "p-3", Color: &green}},
		{name: "map present", in: parcel{ID: "p-4", Labels: lo.ToPtr(map[string]string{"fragile": "yes", "a": "b"})}},
		{name: "empty map present", in: parcel{ID: "p-5", Labels: lo.ToPtr(map[string]string{})}},
		{name: "array present", in: parcel{ID: "p-6", Weights: lo.ToPtr([]int64{3, 5})}},
		{name: "timestamp present", in: parcel{ID: "p-7", Delivered: &delivered}},
		{name: "string present", in: parcel{ID: "p-8", Note: lo.ToPtr("leave at door")}},
		{
			name: "all present",
			in: parcel{
				ID:        "p-9",
				To:        &address{Street: "Main", Zip: 1},
				From:      &address{Street: "Dock", Zip: 2},
				Color:     &green,
				Labels:    lo.ToPtr(map[string]string{"a": "b"}),
				Weights:   lo.ToPtr([]int64{7}),
				Delivered: &delivered,
				Note:      lo.ToPtr("x"),
			},
		},
	}

	schema := mustParse(t, parcelSchema)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			rec, err := encodeParcel(schema, tt.in)
			require.NoError(t, err)

			// Act
			data, err := Marshal(rec)
			require.NoError(t, err)
			decoded, err := Unmarshal(schema, data)
			require.NoError(t, err)
			out, err := decodeParcel(decoded)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.in, out)
		})
	}
}

func TestMarshalUnmarshal_Address(t *testing.T) {
	// Arrange
	schema := mustParse(t, addressSchema)
	in, err := encodeAddress(schema, address{Street: "Main", Zip: 12345})
	require.NoError(t, err)

	// Act
	data, err := Marshal(in)
	require.NoError(t, err)
	decoded, err := Unmarshal(schema, data)
	require.NoError(t, err)
	out, err := decodeAddress(decoded)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, address{Street: "Main", Zip: 12345}, out)
}

func TestMarshalUnmarshal_NestedShapes(t *testing.T) {
	schema := mustParse(t, orderSchema)
	rec, err := NewRecord(schema)
	require.NoError(t, err)

	shipping, err := NewRecord(rec.FieldSchema("shipping"))
	require.NoError(t, err)
	shipping.Put("street", Utf8("Main"))
	shipping.Put("zip", int32(1))

	lines, err := ListEncoder(EncodeString)(rec.FieldSchema("lines"), []string{"a", "b"})
	require.NoError(t, err)
	color, err := EncodeEnumName(rec.FieldSchema("color"), "GREEN")
	require.NoError(t, err)

	rec.Put("id", Utf8("o-1"))
	rec.Put("quantity", int32(3))
	rec.Put("placed", int64(1700000000000))
	rec.Put("lines", lines)
	rec.Put("totals", map[string]any{"net": int64(10)})
	rec.Put("color", color)
	rec.Put("shipping", shipping)

	data, err := Marshal(rec)
	require.NoError(t, err)
	got, err := Unmarshal(schema, data)
	require.NoError(t, err)

	id, err := DecodeString(got.Get("id"))
	require.NoError(t, err)
	assert.Equal(t, "o-1", id)

	quantity, err := DecodeInt(got.Get("quantity"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), quantity)

	placed, err := DecodeTimestampMillis(got.Get("placed"))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), placed.UnixMilli())

	gotLines, err := ListDecoder(DecodeString)(got.Get("lines"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, gotLines)

	totals, err := MapDecoder(DecodeLong)(got.Get("totals"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"net": 10}, totals)

	sym, ok := got.Get("color").(*EnumSymbol)
	require.True(t, ok)
	assert.Equal(t, "GREEN", sym.Symbol)

	gotShipping, err := RecordDecoder(decodeAddress)(got.Get("shipping"))
	require.NoError(t, err)
	assert.Equal(t, address{Street: "Main", Zip: 1}, gotShipping)
}

func TestMarshal_ReportsBadField(t *testing.T) {
	rec, err := NewRecord(mustParse(t, addressSchema))
	require.NoError(t, err)
	rec.Put("street", 42)
	rec.Put("zip", int32(1))

	_, err = Marshal(rec)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "com.example.Address.street")
}

func TestUnmarshal_RequiresRecordSchema(t *testing.T) {
	_, err := Unmarshal(mustParse(t, colorSchema), []byte{0})

	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
