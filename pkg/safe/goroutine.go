// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package safe

import (
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/guestline/pkg/log"
)

// PanicError carries a recovered panic value and the stack it was raised on.
type PanicError struct {
	Name  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: recovered from panic: %v", e.Name, e.Value)
}

// Go runs f on a new goroutine. A panic is logged and swallowed.
func Go(name string, f func()) {
	go func() {
		_ = Do(name, f)
	}()
}

// Do runs f and turns a panic into a *PanicError.
func Do(name string, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Name: name, Value: r, Stack: debug.Stack()}
			log.Errorw("goroutine panicked", "name", name, "panic", r, "stack", string(pe.Stack))
			err = pe
		}
	}()
	f()
	return nil
}
