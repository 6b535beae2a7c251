// Copyright 2025 Datawiser

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dwapi

import (
	"strconv"
)

// Cell formatting helpers shared by the Table() exports. Optional (pointer)
// values render as the empty string when absent, so a payload shape always
// maps to a stable column set.

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ftoaOpt(f *float64) string {
	if f == nil {
		return ""
	}
	return ftoa(*f)
}

func btoa(b bool) string {
	return strconv.FormatBool(b)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
