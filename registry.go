package docvalue

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dhoelle/docvalue/value"
)

const (
	// The default struct tag holding wire names and member options
	defaultTagName = "doc"

	// The default struct tag holding a member's default value
	defaultDefaultTagName = "default"
)

type Config struct {
	// TagName is the struct tag read for member names and options.
	//
	// If unset, defaults to "doc".
	TagName string

	// DefaultTagName is the struct tag holding a member's explicit default,
	// used when the member is absent from a decoded object. The tag text is
	// converted with the same rules as a decoded StringV.
	//
	// If unset, defaults to "default".
	DefaultTagName string

	// Logger receives debug records when conversion routines are compiled
	// and when types are registered. If nil, nothing is logged.
	Logger *slog.Logger
}

// Registry converts between Go values and [value.Value] trees.
//
// Conversion routines are compiled once per Go type on first use and
// cached. A Registry is safe for concurrent use. Register enums, creators
// and sets before converting the types they affect; registering drops the
// routines compiled so far.
type Registry struct {
	tagName        string
	defaultTagName string
	logger         *slog.Logger

	structs  typeCache[*structInfo]
	encoders typeCache[encoderFunc]
	decoders typeCache[decoderFunc]

	mu       sync.RWMutex // guards the registrations below
	enums    map[reflect.Type]*enumTable
	creators map[reflect.Type][]*creator
	sets     map[reflect.Type]*setInfo // by interface type
	setImpls map[reflect.Type]*setInfo // by concrete type
}

// NewRegistry returns an empty Registry. cfg may be nil.
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Registry{
		tagName:        cfg.TagName,
		defaultTagName: cfg.DefaultTagName,
		logger:         cfg.Logger,
		enums:          map[reflect.Type]*enumTable{},
		creators:       map[reflect.Type][]*creator{},
		sets:           map[reflect.Type]*setInfo{},
		setImpls:       map[reflect.Type]*setInfo{},
	}
	if r.tagName == "" {
		r.tagName = defaultTagName
	}
	if r.defaultTagName == "" {
		r.defaultTagName = defaultDefaultTagName
	}
	return r
}

// Encode converts v to a Value.
func (r *Registry) Encode(v any) (value.Value, error) {
	e := &encodeState{r: r}
	return e.encode(reflect.ValueOf(v))
}

// Decode converts v into the Go value pointed to by out.
func (r *Registry) Decode(v value.Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget{Type: reflect.TypeOf(out)}
	}
	return r.decode(v, rv.Elem())
}

// Decode converts v to a T.
func Decode[T any](r *Registry, v value.Value) (T, error) {
	var out T
	err := r.Decode(v, &out)
	return out, err
}

// CachedTypes returns the number of compiled conversion routines.
func (r *Registry) CachedTypes() int {
	return r.encoders.len() + r.decoders.len()
}

// invalidate drops compiled routines after a registration changed how
// types convert.
func (r *Registry) invalidate() {
	r.structs.reset()
	r.encoders.reset()
	r.decoders.reset()
}

func (r *Registry) encoderFor(t reflect.Type) encoderFunc {
	fn, built := r.encoders.get(t, r.buildEncoder)
	if built {
		r.debug("compiled encoder", "type", t.String())
	}
	return fn
}

func (r *Registry) decoderFor(t reflect.Type) decoderFunc {
	fn, built := r.decoders.get(t, r.buildDecoder)
	if built {
		r.debug("compiled decoder", "type", t.String())
	}
	return fn
}

func (r *Registry) debug(msg string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
}
