package docvalue

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/dhoelle/docvalue/value"
)

// setInfo bridges one instantiation of mapset.Set[T] and the []T it is
// converted through.
type setInfo struct {
	iface     reflect.Type // mapset.Set[T]
	slice     reflect.Type // []T
	toSlice   func(set any) any
	fromSlice func(slice any) any
}

// RegisterSet makes mapset.Set[T] a decode target, materialized with
// mapset.NewSet, and encodes the package's concrete set types as Arrays.
// Elements of ordered kinds are written in ascending order.
func RegisterSet[T comparable](r *Registry) {
	info := &setInfo{
		iface: reflect.TypeFor[mapset.Set[T]](),
		slice: reflect.TypeFor[[]T](),
		toSlice: func(set any) any {
			return set.(mapset.Set[T]).ToSlice()
		},
		fromSlice: func(slice any) any {
			return mapset.NewSet(slice.([]T)...)
		},
	}

	r.mu.Lock()
	r.sets[info.iface] = info
	r.setImpls[reflect.TypeOf(mapset.NewSet[T]())] = info
	r.setImpls[reflect.TypeOf(mapset.NewThreadUnsafeSet[T]())] = info
	r.mu.Unlock()

	r.invalidate()
	r.debug("registered set", "type", info.iface.String())
}

func (si *setInfo) encode(e *encodeState, v reflect.Value) (value.Value, error) {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return value.Null(), nil
	}
	elems := reflect.ValueOf(si.toSlice(v.Interface()))
	sortSlice(elems)
	return e.encode(elems)
}

func (r *Registry) compileSetDecoder(si *setInfo) decoderFunc {
	return func(v value.Value, dst reflect.Value) error {
		elems := reflect.New(si.slice).Elem()
		if err := r.decode(v, elems); err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(si.fromSlice(elems.Interface())))
		return nil
	}
}
