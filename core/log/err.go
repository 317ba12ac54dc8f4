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

package log

import (
	"context"

	"github.com/pkg/errors"
)

// Err creates a new error that wraps cause with msg, and logs it at debug
// level to the context's logger.
// If cause is nil a new error with the message is returned.
func Err(ctx context.Context, cause error, msg string) error {
	var err error
	if cause == nil {
		err = errors.New(msg)
	} else {
		err = errors.Wrap(cause, msg)
	}
	from(ctx).Debug(err.Error())
	return err
}

// Errf creates a new error that wraps cause with the formatted message, and
// logs it at debug level to the context's logger.
// If cause is nil a new error with the message is returned.
func Errf(ctx context.Context, cause error, fmt string, args ...interface{}) error {
	var err error
	if cause == nil {
		err = errors.Errorf(fmt, args...)
	} else {
		err = errors.Wrapf(cause, fmt, args...)
	}
	from(ctx).Debug(err.Error())
	return err
}
