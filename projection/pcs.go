/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package projection

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"github.com/pkg/errors"
)

// pcs returns a FamilyFunc that delegates the projection math to the
// github.com/ctessum/geom/proj implementation of the proj4 projection
// named projName. The proj4 definition is built from the parameters with
// the origin longitude set to zero because the input is already in the
// projection frame.
func pcs(projName string, parallels int) FamilyFunc {
	return func(this *Params) (forward, inverse Transformer, err error) {
		b := this.A * math.Sqrt(1-this.E*this.E)
		ellps := fmt.Sprintf("+a=%.17g +b=%.17g", this.A, b)

		def := fmt.Sprintf("+proj=%s +lat_0=%.17g +lon_0=0 +x_0=0 +y_0=0", projName, this.Origin[0]*rad2deg)
		if parallels > 0 {
			if len(this.Parallels) == 0 {
				return nil, nil, errors.Errorf("projection.%s: need a standard parallel", projName)
			}
			lat1 := this.Parallels[0]
			lat2 := lat1
			if len(this.Parallels) > 1 {
				lat2 = this.Parallels[1]
			}
			if math.Abs(lat1+lat2) < ParallelEpsilon {
				lat2 += ParallelEpsilon
			}
			def += fmt.Sprintf(" +lat_1=%.17g +lat_2=%.17g", lat1*rad2deg, lat2*rad2deg)
		} else {
			def += " +k_0=1"
		}
		def += " " + ellps + " +to_meter=1"

		geoSR, err := proj.Parse("+proj=longlat " + ellps)
		if err != nil {
			return nil, nil, errors.Wrap(err, "projection: parsing geographic reference")
		}
		projSR, err := proj.Parse(def)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "projection: parsing %q", def)
		}
		fwd, err := geoSR.NewTransform(projSR)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrDegenerateParameters, "%s: %v", projName, err)
		}
		inv, err := projSR.NewTransform(geoSR)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrDegenerateParameters, "%s: %v", projName, err)
		}

		forward = func(lat, lon float64) (x, y float64) {
			x, y, err := fwd(lon*rad2deg, lat*rad2deg)
			if err != nil {
				return math.NaN(), math.NaN()
			}
			return x, y
		}
		inverse = func(x, y float64) (lat, lon float64) {
			lon, lat, err := inv(x, y)
			if err != nil {
				return math.NaN(), math.NaN()
			}
			return lat * deg2rad, lon * deg2rad
		}
		return forward, inverse, nil
	}
}

func init() {
	register(pcs("lcc", 2), Defaults{
		Class:     Conic,
		Title:     "Lambert Conformal Conic",
		Parallels: []float64{33, 45},
		TrimLat:   [2]float64{-89, 89},
		TrimLon:   [2]float64{-135, 135},
		FLatLimit: [2]float64{-75, 84},
		FLonLimit: [2]float64{-135, 135},
	}, "lcc", "Lambert_Conformal_Conic", "lambert")
}
