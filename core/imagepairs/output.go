// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package imagepairs

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// Same layout as the legacy scripts printed, people compare these by eye with older outputs
const pairDateFormat = "2006-01-02 15:04:05"

// FormatPairs - printable listing of the dates in each pair group:
//
//	Pair 0
//	------
//	2021-03-01 10:05:00
//	2021-03-01 10:10:00
func FormatPairs(pairs []PairedImage) string {
	var sb strings.Builder

	for c, p := range pairs {
		if c == 0 || pairs[c-1].PairIndex != p.PairIndex {
			if c > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("Pair %v\n------\n", p.PairIndex))
		}
		sb.WriteString(p.Date.Format(pairDateFormat) + "\n")
	}
	if len(pairs) > 0 {
		sb.WriteString("\n")
	}

	return sb.String()
}

var csvHeader = []string{"date", "geo_file", "image_file", "folder", "pair_index"}

// WriteCSV - writes the pair table, one row per acquisition, dates in RFC3339 UTC
func WriteCSV(w io.Writer, pairs []PairedImage) error {
	cw := csv.NewWriter(w)

	err := cw.Write(csvHeader)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		err = cw.Write([]string{
			p.Date.UTC().Format(time.RFC3339),
			p.GeoFile,
			p.ImageFile,
			p.Folder,
			fmt.Sprintf("%v", p.PairIndex),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
