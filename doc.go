/*
Package seamcarver is a content aware image narrowing library. It reduces the width
of an image by repeatedly removing the vertical seam of pixels whose removal
least disturbs the image content.

Every iteration runs the same three steps over the current image:

  - BuildEnergyMap computes the energy of each pixel from the color gradient
    between the pixel and its horizontal neighbors;
  - FindLowEnergySeam finds the connected top to bottom path with the lowest
    cumulative energy by dynamic programming;
  - RemoveSeam produces a new image, one column narrower, without that path.

The package provides a command line interface as well:

	$ seamcarver -out out.jpg image.jpg 120

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/seamcarver"
	)

	func main() {
		p := &seamcarver.Processor{
			TrimWidth: 120,
		}

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error narrowing image: %s", err.Error())
		}
	}
*/
package seamcarver
