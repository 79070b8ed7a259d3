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

import "strings"

// codeLabelRunMin is the minimum length of a consecutive label run that can
// be promoted to a code block, and codeHitMin the minimum number of members
// that must look like code.
const (
	codeLabelRunMin = 3
	codeHitMin      = 2
)

// postProcess performs the second pass over one page's element sequence:
// adjacent equations are merged into one, and label runs that look like
// code are promoted to a single code block. Everything else passes through
// in order.
func postProcess(elements []Element) []Element {
	result := make([]Element, 0, len(elements))

	for i := 0; i < len(elements); {
		switch e := elements[i].(type) {
		case *Equation:
			merged := copySpans(e.Spans)
			j := i + 1
			for j < len(elements) {
				next, ok := elements[j].(*Equation)
				if !ok {
					break
				}
				merged = append(merged, next.Spans...)
				j++
			}
			if j > i+1 {
				result = append(result, &Equation{Spans: merged})
			} else {
				result = append(result, e)
			}
			i = j

		case *Label:
			var labels []*Label
			j := i
			for j < len(elements) {
				lb, ok := elements[j].(*Label)
				if !ok {
					break
				}
				labels = append(labels, lb)
				j++
			}
			texts := make([]string, len(labels))
			hits := 0
			for k, lb := range labels {
				texts[k] = plainText(lb.Spans)
				if looksLikeCode(texts[k]) {
					hits++
				}
			}
			if len(labels) >= codeLabelRunMin && hits >= codeHitMin {
				result = append(result, &Code{Lines: texts})
			} else {
				for _, lb := range labels {
					result = append(result, lb)
				}
			}
			i = j

		default:
			result = append(result, elements[i])
			i++
		}
	}

	return result
}

func looksLikeCode(text string) bool {
	return strings.ContainsAny(text, ";=(")
}
