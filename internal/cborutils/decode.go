package cborutils

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/shogo82148/go-cbor"
)

type Decoder struct {
	pkg string
	raw map[any]any
	err error
}

func NewDecoder(pkg string, raw map[any]any) *Decoder {
	return &Decoder{
		pkg: pkg,
		raw: raw,
	}
}

func (d *Decoder) SaveError(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Decoder) Err() error {
	return d.err
}

// Has returns true if the label exists.
func (d *Decoder) Has(label int64) bool {
	i := IntegerFromInt64(label)
	_, ok := d.raw[i]
	return ok
}

// GetInteger gets an integer parameter.
func (d *Decoder) GetInteger(label int64) (cbor.Integer, bool) {
	v, ok := d.raw[IntegerFromInt64(label)]
	if !ok {
		return cbor.Integer{}, false
	}

	i, ok := v.(cbor.Integer)
	return i, ok
}

// GetString gets a string parameter.
func (d *Decoder) GetString(label int64) (string, bool) {
	v, ok := d.raw[IntegerFromInt64(label)]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	return s, ok
}

// GetBytes gets a byte string parameter.
func (d *Decoder) GetBytes(label int64) ([]byte, bool) {
	v, ok := d.raw[IntegerFromInt64(label)]
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		d.SaveError(&typeError{pkg: d.pkg, label: label, want: "[]byte", got: reflect.TypeOf(v)})
		return nil, false
	}
	return b, true
}

// MustBytes gets a byte string parameter.
// If the parameter doesn't exist, it saves an error and returns nil.
func (d *Decoder) MustBytes(label int64) []byte {
	b, ok := d.GetBytes(label)
	if !ok {
		if d.err == nil {
			d.SaveError(&missingError{pkg: d.pkg, label: label})
		}
		return nil
	}
	return b
}

// GetBigInt gets a byte string parameter as a big-endian unsigned integer.
func (d *Decoder) GetBigInt(label int64) (*big.Int, bool) {
	b, ok := d.GetBytes(label)
	if !ok {
		return nil, false
	}
	return new(big.Int).SetBytes(b), true
}

// MustBigInt gets a byte string parameter as a big-endian unsigned integer.
func (d *Decoder) MustBigInt(label int64) *big.Int {
	n, ok := d.GetBigInt(label)
	if !ok {
		if d.err == nil {
			d.SaveError(&missingError{pkg: d.pkg, label: label})
		}
		return nil
	}
	return n
}

type typeError struct {
	pkg   string
	label int64
	want  string
	got   reflect.Type
}

func (err *typeError) Error() string {
	return fmt.Sprintf("%s: want %s for the label %d but got %s", err.pkg, err.want, err.label, err.got.String())
}

type missingError struct {
	pkg   string
	label int64
}

func (err *missingError) Error() string {
	return fmt.Sprintf("%s: required label %d is missing", err.pkg, err.label)
}
