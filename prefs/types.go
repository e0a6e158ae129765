// This file is part of Syncline.
//
// Syncline is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncline is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncline.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/syncline/curated"
)

// Value represents the actual Go preference value.
type Value any

// Sentinel error returned when a value cannot be converted to the preference
// type.
const CannotSet = "prefs: cannot set %T to %v"

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	value    atomic.Bool
	def      bool
	hookPost func(value Value) error
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return curated.Errorf(CannotSet, p, v)
	}

	p.value.Store(nv)

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the value to the default.
func (p *Bool) Reset() error {
	return p.Set(p.def)
}

// SetDefault sets the value used by Reset() and sets the current value.
func (p *Bool) SetDefault(v bool) {
	p.def = v
	p.value.Store(v)
}

// SetHookPost sets the function to be called just after the value is
// updated. The function is called even if the value hasn't changed.
func (p *Bool) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// String implements a string type in the prefs system.
type String struct {
	crit     sync.Mutex
	value    string
	def      string
	maxLen   int
	hookPost func(value Value) error
}

func (p *String) String() string {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.value
}

// SetMaxLen sets the maximum length for a string when it is set. A value of
// zero or less means there is no limit. The existing string is cropped if
// necessary.
func (p *String) SetMaxLen(max int) {
	p.crit.Lock()
	defer p.crit.Unlock()

	p.maxLen = max
	if p.maxLen > 0 && len(p.value) > p.maxLen {
		p.value = p.value[:p.maxLen]
	}
}

// Set new value to String type. Values of other types are converted with
// the %v verb.
func (p *String) Set(v Value) error {
	nv := fmt.Sprintf("%v", v)

	p.crit.Lock()
	if p.maxLen > 0 && len(nv) > p.maxLen {
		nv = nv[:p.maxLen]
	}
	p.value = nv
	p.crit.Unlock()

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the value to the default.
func (p *String) Reset() error {
	return p.Set(p.def)
}

// SetDefault sets the value used by Reset() and sets the current value.
func (p *String) SetDefault(v string) {
	p.def = v
	p.crit.Lock()
	p.value = v
	p.crit.Unlock()
}

// SetHookPost sets the function to be called just after the value is
// updated. The function is called even if the value hasn't changed.
func (p *String) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Int implements an integer type in the prefs system.
type Int struct {
	value    atomic.Int64
	def      int
	hookPost func(value Value) error
}

func (p *Int) String() string {
	return strconv.FormatInt(p.value.Load(), 10)
}

// Set new value to Int type. New value can be an int or a string that can be
// converted to an int.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int:
		nv = v
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return curated.Errorf(CannotSet, p, v)
		}
	default:
		return curated.Errorf(CannotSet, p, v)
	}

	p.value.Store(int64(nv))

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the value to the default.
func (p *Int) Reset() error {
	return p.Set(p.def)
}

// SetDefault sets the value used by Reset() and sets the current value.
func (p *Int) SetDefault(v int) {
	p.def = v
	p.value.Store(int64(v))
}

// SetHookPost sets the function to be called just after the value is
// updated. The function is called even if the value hasn't changed.
func (p *Int) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Float implements a floating-point type in the prefs system.
type Float struct {
	value    atomic.Value // float64
	def      float64
	hookPost func(value Value) error
}

func (p *Float) String() string {
	return strconv.FormatFloat(p.Get().(float64), 'g', -1, 64)
}

// Set new value to Float type. New value can be a float64, an int or a string
// that can be converted to a float64.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case int:
		nv = float64(v)
	case string:
		var err error
		nv, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return curated.Errorf(CannotSet, p, v)
		}
	default:
		return curated.Errorf(CannotSet, p, v)
	}

	p.value.Store(nv)

	if p.hookPost != nil {
		return p.hookPost(nv)
	}
	return nil
}

// Get returns the raw pref value.
func (p *Float) Get() Value {
	v := p.value.Load()
	if v == nil {
		return 0.0
	}
	return v.(float64)
}

// Reset sets the value to the default.
func (p *Float) Reset() error {
	return p.Set(p.def)
}

// SetDefault sets the value used by Reset() and sets the current value.
func (p *Float) SetDefault(v float64) {
	p.def = v
	p.value.Store(v)
}

// SetHookPost sets the function to be called just after the value is
// updated. The function is called even if the value hasn't changed.
func (p *Float) SetHookPost(f func(value Value) error) {
	p.hookPost = f
}

// Generic is a general purpose prefererences type, useful for values that
// cannot be represented by a single built-in type. The set and get functions
// convert to and from the string stored on disk.
type Generic struct {
	crit sync.Mutex
	set  func(string) error
	get  func() string
}

// NewGeneric is the preferred method of initialisation for the Generic type.
func NewGeneric(set func(string) error, get func() string) *Generic {
	return &Generic{
		set: set,
		get: get,
	}
}

func (p *Generic) String() string {
	return p.Get().(string)
}

// Set triggers the set value procedure for the generic type.
func (p *Generic) Set(v Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.set(fmt.Sprintf("%v", v))
}

// Get triggers the get value procedure for the generic type.
func (p *Generic) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.get()
}

// Reset sets the generic value to the empty string.
func (p *Generic) Reset() error {
	return p.Set("")
}
