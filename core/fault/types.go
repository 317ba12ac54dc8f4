// Copyright (C) 2017 Google Inc.
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

// Package fault holds the small error building blocks shared by the codecs.
package fault

import (
	"context"

	"github.com/pkg/errors"
)

// Const is the type for constant error values.
type Const string

// Error implements error for Const returning the string value of the const.
func (e Const) Error() string { return string(e) }

// From converts a recovered panic value to an error.
// A nil value returns an untyped nil, an error is returned unchanged and
// anything else is formatted into a new error.
func From(value interface{}) error {
	switch err := value.(type) {
	case nil:
		return nil
	case error:
		return err
	default:
		return errors.Errorf("%v", value)
	}
}

// Cancelled returns true if err was caused by the cancellation or expiry of a
// context, as opposed to a failure of the operation itself.
func Cancelled(err error) bool {
	switch errors.Cause(err) {
	case context.Canceled, context.DeadlineExceeded:
		return true
	default:
		return false
	}
}
