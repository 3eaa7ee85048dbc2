package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kilianp07/dellve/core/logger"
	"github.com/kilianp07/dellve/core/metrics"
	"github.com/kilianp07/dellve/core/plugins"
)

// Store holds the configuration of a dellve process.
type Store struct {
	mu       sync.RWMutex
	v        values
	provider BenchmarkProvider
	log      logger.Logger
	rec      metrics.Recorder
}

// values is the typed record behind a Store. Loads stage their changes on a
// clone so that a failing document leaves the store untouched.
type values struct {
	appDir     string
	httpPort   int
	pidFile    string
	benchmarks []plugins.Ref
	// resolved is false until benchmarks was discovered or written.
	resolved bool
	extra    map[string]any
}

type options struct {
	appName  string
	resolver DirResolver
	provider BenchmarkProvider
	log      logger.Logger
	rec      metrics.Recorder
}

// Option customises New.
type Option func(*options)

// WithAppName overrides the application name used to resolve app-dir.
func WithAppName(name string) Option { return func(o *options) { o.appName = name } }

// WithDirResolver overrides how app-dir is resolved.
func WithDirResolver(r DirResolver) Option { return func(o *options) { o.resolver = r } }

// WithBenchmarkProvider overrides benchmark discovery. The provider runs the
// first time benchmarks are read, never from New.
func WithBenchmarkProvider(p BenchmarkProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option { return func(o *options) { o.log = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *options) { o.rec = r } }

// New returns a Store seeded with the default values.
func New(opts ...Option) (*Store, error) {
	o := options{
		appName:  AppName,
		resolver: UserAppDir,
		provider: DiscoverBenchmarks(plugins.Default),
		log:      logger.NopLogger{},
		rec:      metrics.NopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	appDir, err := o.resolver(o.appName)
	if err != nil {
		return nil, fmt.Errorf("resolve app dir: %w", err)
	}
	return &Store{
		v: values{
			appDir:   appDir,
			httpPort: DefaultHTTPPort,
			pidFile:  DefaultPIDFile(appDir),
			extra:    make(map[string]any),
		},
		provider: o.provider,
		log:      o.log,
		rec:      o.rec,
	}, nil
}

// Get returns the value stored under name. Reading benchmarks runs the
// discovery provider if the value was not resolved yet.
func (s *Store) Get(name string) (any, error) {
	if name == KeyBenchmarks {
		refs, err := s.Benchmarks()
		if err != nil {
			return nil, err
		}
		return refs, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.v.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return v, nil
}

// Set stores value under name, creating or overwriting it. Values for
// recognised keys are converted to the key's type; a value that cannot be
// converted returns an *InvalidValueError and keeps the previous value.
func (s *Store) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.set(name, value); err != nil {
		return err
	}
	s.rec.RecordSet(name)
	s.log.Debugw("config key set", map[string]any{"key": name})
	return nil
}

// AppDir returns the application directory.
func (s *Store) AppDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.appDir
}

// HTTPPort returns the HTTP API port.
func (s *Store) HTTPPort() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.httpPort
}

// PIDFile returns the PID file path.
func (s *Store) PIDFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.pidFile
}

// Benchmarks returns the benchmark references, discovering them on first use.
// A failed discovery is not cached.
func (s *Store) Benchmarks() ([]plugins.Ref, error) {
	s.mu.RLock()
	if s.v.resolved {
		refs := cloneRefs(s.v.benchmarks)
		s.mu.RUnlock()
		return refs, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.v.resolved {
		if err := s.discoverLocked(); err != nil {
			return nil, err
		}
	}
	return cloneRefs(s.v.benchmarks), nil
}

// RefreshBenchmarks runs discovery again, replacing the current value.
func (s *Store) RefreshBenchmarks() ([]plugins.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.discoverLocked(); err != nil {
		return nil, err
	}
	return cloneRefs(s.v.benchmarks), nil
}

func (s *Store) discoverLocked() error {
	if s.provider == nil {
		s.v.benchmarks, s.v.resolved = nil, true
		return nil
	}
	refs, err := s.provider()
	if err != nil {
		return fmt.Errorf("discover benchmarks: %w", err)
	}
	s.v.benchmarks, s.v.resolved = cloneRefs(refs), true
	s.log.Debugf("discovered %d benchmarks", len(refs))
	return nil
}

// Keys returns every key currently set, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []string{KeyAppDir, KeyHTTPPort, KeyBenchmarks, KeyPIDFile}
	for k := range s.v.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a snapshot of every key and value.
func (s *Store) All() (map[string]any, error) {
	refs, err := s.Benchmarks()
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.v.extra)+4)
	for k, v := range s.v.extra {
		out[k] = v
	}
	out[KeyAppDir] = s.v.appDir
	out[KeyHTTPPort] = s.v.httpPort
	out[KeyBenchmarks] = refs
	out[KeyPIDFile] = s.v.pidFile
	return out, nil
}

// merge applies data key by key on a staged copy and commits it only when
// every key was accepted.
func (s *Store) merge(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.v.clone()
	for k, v := range data {
		if err := next.set(k, v); err != nil {
			return err
		}
	}
	s.v = next
	return nil
}

func (v *values) get(name string) (any, bool) {
	switch name {
	case KeyAppDir:
		return v.appDir, true
	case KeyHTTPPort:
		return v.httpPort, true
	case KeyPIDFile:
		return v.pidFile, true
	}
	val, ok := v.extra[name]
	return val, ok
}

func (v *values) set(name string, value any) error {
	switch name {
	case KeyAppDir, KeyPIDFile:
		var path string
		if err := convert(name, value, &path); err != nil {
			return err
		}
		if path == "" {
			return &InvalidValueError{Key: name, Value: value, Err: errors.New("path is required")}
		}
		if name == KeyAppDir {
			v.appDir = path
		} else {
			v.pidFile = path
		}
	case KeyHTTPPort:
		if f, ok := value.(float64); ok && math.Trunc(f) != f {
			return &InvalidValueError{Key: name, Value: value, Err: errors.New("port must be an integer")}
		}
		var port int
		if err := convert(name, value, &port); err != nil {
			return err
		}
		if port < 1 || port > 65535 {
			return &InvalidValueError{Key: name, Value: value, Err: errors.New("port out of range")}
		}
		v.httpPort = port
	case KeyBenchmarks:
		var refs []plugins.Ref
		if err := convert(name, value, &refs); err != nil {
			return err
		}
		v.benchmarks, v.resolved = refs, true
	default:
		v.extra[name] = value
	}
	return nil
}

func (v values) clone() values {
	out := v
	out.benchmarks = cloneRefs(v.benchmarks)
	out.extra = make(map[string]any, len(v.extra))
	for k, val := range v.extra {
		out.extra[k] = val
	}
	return out
}

func cloneRefs(refs []plugins.Ref) []plugins.Ref {
	if refs == nil {
		return nil
	}
	out := make([]plugins.Ref, len(refs))
	copy(out, refs)
	return out
}

// convert decodes value into out with weak typing so that "8080" is a valid
// port and a bare benchmark name is a valid reference.
func convert(key string, value any, out any) error {
	if value == nil {
		return &InvalidValueError{Key: key, Value: value, Err: errors.New("value is required")}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToRefHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(value); err != nil {
		return &InvalidValueError{Key: key, Value: value, Err: err}
	}
	return nil
}

var refType = reflect.TypeOf(plugins.Ref{})

// stringToRefHook turns "name" or "group:name" into a plugins.Ref. A bare
// name belongs to the benchmarks group.
func stringToRefHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != refType {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return nil, errors.New("empty plugin reference")
	}
	if group, name, ok := strings.Cut(s, ":"); ok {
		return plugins.Ref{Group: group, Name: name}, nil
	}
	return plugins.Ref{Group: BenchmarksGroup, Name: s}, nil
}
