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
	"errors"
	"fmt"
)

// TickerNotFoundError is returned when a ticker is not present in the
// endpoint's manifest. Transport and decoding failures, by contrast, surface
// as annotated errors from the fetch layer.
type TickerNotFoundError struct {
	Ticker   string
	Endpoint string
}

func (e *TickerNotFoundError) Error() string {
	return fmt.Sprintf("ticker '%s' not found in the '%s' manifest",
		e.Ticker, e.Endpoint)
}

// IsTickerNotFound checks whether err is a TickerNotFoundError anywhere in
// its chain.
func IsTickerNotFound(err error) bool {
	var e *TickerNotFoundError
	return errors.As(err, &e)
}
