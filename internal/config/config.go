// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the run configuration of the bq runner.
//
// A configuration file alternates key lines and value lines:
//
//	#sem_impl
//	0
//	#semantics
//	1
//	#buffer_size
//	4
//
// Keys may appear in any order. Unknown keys are ignored and missing keys
// keep their zero value. Periods are given in milliseconds.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound reports a configuration file that does not exist.
	ErrNotFound = errors.New("config: file not found")

	// ErrMalformed reports a key whose value line is missing or not a
	// non-negative integer. The key keeps its zero value.
	ErrMalformed = errors.New("config: malformed value")

	// ErrInvalid reports a loaded value outside its valid range.
	ErrInvalid = errors.New("config: invalid value")
)

// Recognized keys, in echo order.
const (
	KeySemImpl        = "#sem_impl"
	KeySemantics      = "#semantics"
	KeyBufferSize     = "#buffer_size"
	KeyNValues        = "#n_values"
	KeyNConsumers     = "#n_consumers"
	KeyNProducers     = "#n_producers"
	KeyConsumerPeriod = "#consumer_period"
	KeyProducerPeriod = "#producer_period"
)

// Config is an immutable run configuration.
type Config struct {
	SemImpl        int // 0 monitor, 1 semaphore
	Semantics      int // 0 blocking, 1 non-blocking, 2 timed
	BufferSize     int
	NValues        int
	NConsumers     int
	NProducers     int
	ConsumerPeriod time.Duration
	ProducerPeriod time.Duration
}

// Load reads the configuration file at path.
//
// A missing file returns an error wrapping ErrNotFound together with the
// zero Config. Malformed values return the parsed Config together with an
// error wrapping ErrMalformed; the Config is still usable.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a configuration from r.
// See Load for the meaning of the returned error.
func Parse(r io.Reader) (Config, error) {
	var (
		cfg      Config
		warnings []error
		pending  string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if isKey(line) {
			if pending != "" {
				warnings = append(warnings, fmt.Errorf("%w: %s has no value", ErrMalformed, pending))
			}
			pending = line
			continue
		}
		if pending == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil || v < 0 {
			warnings = append(warnings, fmt.Errorf("%w: %s = %q", ErrMalformed, pending, line))
			v = 0
		}
		cfg.set(pending, v)
		pending = ""
	}
	if err := sc.Err(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if pending != "" {
		warnings = append(warnings, fmt.Errorf("%w: %s has no value", ErrMalformed, pending))
	}
	return cfg, errors.Join(warnings...)
}

// Validate reports every value outside its valid range, each wrapping
// ErrInvalid. It returns nil for a runnable configuration.
func (c Config) Validate() error {
	var errs []error
	if c.SemImpl != 0 && c.SemImpl != 1 {
		errs = append(errs, fmt.Errorf("%w: sem_impl %d not in [0, 1]", ErrInvalid, c.SemImpl))
	}
	if c.Semantics < 0 || c.Semantics > 2 {
		errs = append(errs, fmt.Errorf("%w: semantics %d not in [0, 2]", ErrInvalid, c.Semantics))
	}
	for _, f := range []struct {
		name string
		v    int64
	}{
		{"buffer_size", int64(c.BufferSize)},
		{"n_values", int64(c.NValues)},
		{"n_consumers", int64(c.NConsumers)},
		{"n_producers", int64(c.NProducers)},
		{"consumer_period", int64(c.ConsumerPeriod)},
		{"producer_period", int64(c.ProducerPeriod)},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s is negative", ErrInvalid, f.name))
		}
	}
	if c.NConsumers+c.NProducers == 0 {
		errs = append(errs, fmt.Errorf("%w: no producers and no consumers", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Echo writes one "name = value" line per key, periods in milliseconds.
func (c Config) Echo(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"sem_impl = %d\nsemantics = %d\nbuffer_size = %d\nn_values = %d\n"+
			"n_consumers = %d\nn_producers = %d\nconsumer_period = %d\nproducer_period = %d\n",
		c.SemImpl, c.Semantics, c.BufferSize, c.NValues,
		c.NConsumers, c.NProducers, c.ConsumerPeriod.Milliseconds(), c.ProducerPeriod.Milliseconds())
	return err
}

func isKey(line string) bool {
	switch line {
	case KeySemImpl, KeySemantics, KeyBufferSize, KeyNValues,
		KeyNConsumers, KeyNProducers, KeyConsumerPeriod, KeyProducerPeriod:
		return true
	}
	return false
}

func (c *Config) set(key string, v int) {
	switch key {
	case KeySemImpl:
		c.SemImpl = v
	case KeySemantics:
		c.Semantics = v
	case KeyBufferSize:
		c.BufferSize = v
	case KeyNValues:
		c.NValues = v
	case KeyNConsumers:
		c.NConsumers = v
	case KeyNProducers:
		c.NProducers = v
	case KeyConsumerPeriod:
		c.ConsumerPeriod = time.Duration(v) * time.Millisecond
	case KeyProducerPeriod:
		c.ProducerPeriod = time.Duration(v) * time.Millisecond
	}
}
