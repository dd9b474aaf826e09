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

package imageedit

import (
	"image"
	"image/color"
	"image/draw"
)

// MarkLocations - copies img to RGBA and sets each location to markColour. Locations are in
// pixel coordinates of img, anything outside it is skipped
func MarkLocations(img image.Image, locations []image.Point, markColour color.Color) *image.RGBA {
	bounds := img.Bounds()
	outImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	draw.Draw(outImage, outImage.Bounds(), img, bounds.Min, draw.Src)

	for _, loc := range locations {
		if loc.In(outImage.Rect) {
			outImage.Set(loc.X, loc.Y, markColour)
		}
	}

	return outImage
}
