// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package deckdown

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedFormatError is returned when no extractor can handle the input.
type UnsupportedFormatError struct {
	Extension string
	MIMEType  string
}

func (e *UnsupportedFormatError) Error() string {
	parts := []string{"unsupported format"}
	if e.Extension != "" {
		parts = append(parts, fmt.Sprintf("extension=%q", e.Extension))
	}
	if e.MIMEType != "" {
		parts = append(parts, fmt.Sprintf("mime=%q", e.MIMEType))
	}
	return strings.Join(parts, " ")
}

// FailedExtractAttempt records an extractor that accepted but failed.
type FailedExtractAttempt struct {
	Extractor string
	Err       error
}

// ExtractionError is returned when extractors accepted the input but none
// produced a deck.
type ExtractionError struct {
	Attempts []FailedExtractAttempt
}

func (e *ExtractionError) Error() string {
	if len(e.Attempts) == 0 {
		return "extraction failed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "extraction failed after %d attempt(s):", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Extractor, a.Err)
	}
	return b.String()
}

func (e *ExtractionError) Unwrap() error {
	if len(e.Attempts) > 0 {
		return e.Attempts[len(e.Attempts)-1].Err
	}
	return nil
}

// IsUnsupportedFormat reports whether the error is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}
